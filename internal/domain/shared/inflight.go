package shared

import (
	"context"
	"time"
)

// InFlightGuard rejects a second identical request while the first one is
// still running. Keys are built by the caller from the request identity.
type InFlightGuard interface {
	// Acquire claims key for at most ttl.
	// It returns false when another holder owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees key so the next request can proceed
	Release(ctx context.Context, key string) error

	// Close releases resources held by the guard
	Close() error
}
