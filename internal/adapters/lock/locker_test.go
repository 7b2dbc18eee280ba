package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"store-route-planner/internal/ports"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLockerFromClient(rdb), mr
}

func TestRedisLockerExclusive(t *testing.T) {
	l, _ := newRedisLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "plan:2026-01-01", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "plan:2026-01-01", time.Minute)
	require.ErrorIs(t, err, ports.ErrLockHeld)

	other, err := l.Acquire(ctx, "plan:2026-01-02", time.Minute)
	require.NoError(t, err)
	other()

	release()

	again, err := l.Acquire(ctx, "plan:2026-01-01", time.Minute)
	require.NoError(t, err)
	again()
}

func TestRedisLockerExpiredLeaseNotReleasedByOldOwner(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	stale, err := l.Acquire(ctx, "plan:2026-01-01", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	current, err := l.Acquire(ctx, "plan:2026-01-01", time.Minute)
	require.NoError(t, err)

	// The stale owner must not drop the new owner's lease.
	stale()
	assert.True(t, mr.Exists("route-planner:lock:plan:2026-01-01"))

	_, err = l.Acquire(ctx, "plan:2026-01-01", time.Minute)
	require.ErrorIs(t, err, ports.ErrLockHeld)

	current()
	assert.False(t, mr.Exists("route-planner:lock:plan:2026-01-01"))
}

func TestNewRedisLockerBadURL(t *testing.T) {
	_, err := NewRedisLocker("not a url")
	require.Error(t, err)
}

func TestMemoryLockerExpiry(t *testing.T) {
	l := NewMemoryLocker()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	stale, err := l.Acquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(context.Background(), "k", time.Minute)
	require.ErrorIs(t, err, ports.ErrLockHeld)

	now = now.Add(2 * time.Minute)
	current, err := l.Acquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)

	stale()
	_, err = l.Acquire(context.Background(), "k", time.Minute)
	require.ErrorIs(t, err, ports.ErrLockHeld)

	current()
	current()
	release, err := l.Acquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	release()
}

func TestMemoryLockerConcurrent(t *testing.T) {
	l := NewMemoryLocker()

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Acquire(context.Background(), "k", time.Minute); err == nil {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
