package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lease acquired from a Locker.
type UnlockFunc func(ctx context.Context) error

// Locker grants exclusive, expiring leases on named resources.
// The serve command leases a page's trace stream so that two servers never
// interleave records in it.
type Locker interface {
	// Lock blocks until the lease is acquired or ctx is done.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
