package lock

import (
	"context"
	"fmt"
	"store-route-planner/internal/ports"
	"sync"
	"time"
)

type memoryLease struct {
	token   uint64
	expires time.Time
}

// MemoryLocker is a process-local ports.PlanLocker used when no Redis URL is
// configured. It only serializes runs within one instance.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	next   uint64
	now    func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{leases: make(map[string]memoryLease), now: time.Now}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if lease, ok := l.leases[key]; ok && now.Before(lease.expires) {
		return nil, fmt.Errorf("memory locker: %q: %w", key, ports.ErrLockHeld)
	}

	l.next++
	token := l.next
	l.leases[key] = memoryLease{token: token, expires: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if lease, ok := l.leases[key]; ok && lease.token == token {
				delete(l.leases, key)
			}
		})
	}, nil
}
