package lock

import (
	"context"
	"fmt"
	"log"
	"store-route-planner/internal/platform/obs"
	"store-route-planner/internal/ports"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements ports.PlanLocker with SET NX PX.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisLocker connects using a redis:// URL.
func NewRedisLocker(url string) (*RedisLocker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis locker: parse url: %w", err)
	}
	return NewRedisLockerFromClient(redis.NewClient(opt)), nil
}

func NewRedisLockerFromClient(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, prefix: "route-planner:lock:"}
}

// Ping checks connectivity at startup.
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

func (l *RedisLocker) Close() error {
	return l.rdb.Close()
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error) {
	defer obs.Time(ctx, "lock.Acquire")(&err)

	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis locker: set %q: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("redis locker: %q: %w", key, ports.ErrLockHeld)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.rdb, []string{l.prefix + key}, token).Err(); err != nil {
			log.Printf("op=lock.Release key=%s err=%v", key, err)
		}
	}, nil
}
