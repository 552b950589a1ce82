// Package lock defines the lock-provider contract shared by lock/cachelock
// (distributed mutexes over a cachekit.Client + bus.MessageBus) and
// lock/throttle (a rate limiter exposing the same interface, spec.md §4.5).
package lock

import (
	"context"
	"time"
)

// Handle is a held lock. Only the provider that issued it can Release or
// Renew it — the handle itself carries no reusable credential beyond that.
type Handle interface {
	// Name is the lock's identifier.
	Name() string
	// Release gives up the lock. Idempotent: releasing twice is a no-op.
	Release(ctx context.Context) error
	// Renew extends the lease by newLifetime from now, atomically, only if
	// this handle still holds the lock.
	Renew(ctx context.Context, newLifetime time.Duration) error
}

// Provider acquires named, leased locks (spec.md §4.4/§4.5).
type Provider interface {
	// Acquire blocks until the lock is held, acquireTimeout elapses, or ctx
	// is cancelled. timeUntilExpires is the lease lifetime once acquired.
	Acquire(ctx context.Context, name string, timeUntilExpires, acquireTimeout time.Duration) (Handle, error)
}
