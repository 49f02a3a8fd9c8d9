package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned (wrapped) for any backend failure: connection
// errors, timeouts, protocol errors.
var ErrUnavailable = errors.New("kv store unavailable")

// Store is an expiring key-value store.
//
// A ttl <= 0 passed to a write means "no expiry". Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the value for key. found is false when the key is absent or
	// expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// SetWithExpiry overwrites key unconditionally.
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// RemainingTTL returns the time left before key expires. A value <= 0 means
	// the key is absent or has no expiry.
	RemainingTTL(ctx context.Context, key string) (time.Duration, error)

	// IncrementWithExpiry increments the integer at key (creating it at 1) and
	// re-arms its TTL to ttl in one indivisible step.
	IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Expire resets the TTL of an existing key. existed is false (and nothing
	// is created) when the key is absent.
	Expire(ctx context.Context, key string, ttl time.Duration) (existed bool, err error)
}
