package ports

import (
	"context"
	"time"
)

// Port: mutual exclusion for planning runs that touch the same orders.
type PlanLocker interface {
	// Acquire takes the lock for key or fails with ErrLockHeld.
	// The returned release func is safe to call once.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
