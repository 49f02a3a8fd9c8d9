package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidTTL is returned by Expire when ttl is not positive. PEXPIRE with a
// non-positive value deletes the key, which is never what a caller wants.
var ErrInvalidTTL = errors.New("ttl must be > 0")

const incrementWithExpiryScript = `
local count = redis.call("INCR", KEYS[1])
local ttl = tonumber(ARGV[1])
if ttl and ttl > 0 then
  redis.call("PEXPIRE", KEYS[1], ttl)
end
return count
`

var incrementWithExpiryLua = redis.NewScript(incrementWithExpiryScript)

// RedisOptions tunes the Redis adapter.
type RedisOptions struct {
	// OperationTimeout bounds every call. Zero leaves the caller's deadline
	// (and the client's read/write timeouts) as the only bound.
	OperationTimeout time.Duration
}

// Redis adapts a go-redis client to [Store].
type Redis struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewRedis wraps client. The client is shared and never closed by the adapter.
func NewRedis(client redis.UniversalClient, opts RedisOptions) *Redis {
	return &Redis{
		client:  client,
		timeout: opts.OperationTimeout,
	}
}

func (r *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Get implements [Store].
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, true, nil
}

// SetWithExpiry implements [Store].
func (r *Redis) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete implements [Store].
func (r *Redis) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// RemainingTTL implements [Store]. Redis reports -2 for a missing key and -1
// for a key without expiry; both come back as a non-positive duration.
func (r *Redis) RemainingTTL(ctx context.Context, key string) (time.Duration, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ttl, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// IncrementWithExpiry implements [Store] with a single EVALSHA.
//
//	Performance: 1 Redis round-trip.
func (r *Redis) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := incrementWithExpiryLua.Run(ctx, r.client, []string{key}, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

// Expire implements [Store].
func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, ErrInvalidTTL
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ok, err := r.client.PExpire(ctx, key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ok, nil
}

// Ping returns a point-in-time availability check and its latency.
func (r *Redis) Ping(ctx context.Context) (time.Duration, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}
