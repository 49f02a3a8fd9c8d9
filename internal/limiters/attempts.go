package limiters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MrEthical07/goLogin/kvstore"
)

// AttemptConfig holds configuration for the failed-login limiter.
type AttemptConfig struct {
	Prefix        string
	Threshold     int
	LockDuration  time.Duration
	FailureWindow time.Duration // 0 = LockDuration
}

var (
	// ErrAttemptsUnavailable indicates the counter/lockout backend is unreachable.
	ErrAttemptsUnavailable = errors.New("attempt limiter backend unavailable")
)

// LockState is the result of [AttemptLimiter.IsLocked].
type LockState struct {
	Locked bool
	// Remaining is the marker TTL rounded up to whole seconds; 0 when unlocked.
	Remaining time.Duration
}

// RemainingSeconds returns Remaining as whole seconds.
func (s LockState) RemainingSeconds() int {
	return int(s.Remaining / time.Second)
}

// AttemptLimiter tracks failed login attempts per username and maintains the
// lockout marker. It never decides when to lock; flows do.
type AttemptLimiter struct {
	kv     kvstore.Store
	config AttemptConfig
}

// NewAttemptLimiter creates a new attempt limiter.
func NewAttemptLimiter(kv kvstore.Store, cfg AttemptConfig) *AttemptLimiter {
	if cfg.FailureWindow <= 0 {
		cfg.FailureWindow = cfg.LockDuration
	}
	return &AttemptLimiter{kv: kv, config: cfg}
}

// Config returns the effective configuration.
func (l *AttemptLimiter) Config() AttemptConfig {
	return l.config
}

func (l *AttemptLimiter) failedKey(username string) string {
	return l.config.Prefix + "login_failed:" + username
}

func (l *AttemptLimiter) lockedKey(username string) string {
	return l.config.Prefix + "login_locked:" + username
}

// IsLocked reports whether the lockout marker exists. The marker TTL is the
// only source of the remaining time.
//
//	Performance: 1 store command.
func (l *AttemptLimiter) IsLocked(ctx context.Context, username string) (LockState, error) {
	ttl, err := l.kv.RemainingTTL(ctx, l.lockedKey(username))
	if err != nil {
		return LockState{}, fmt.Errorf("%w: %w", ErrAttemptsUnavailable, err)
	}
	if ttl <= 0 {
		return LockState{}, nil
	}
	return LockState{Locked: true, Remaining: ceilSeconds(ttl)}, nil
}

// FailedAttempts returns the current failure count, 0 if none.
func (l *AttemptLimiter) FailedAttempts(ctx context.Context, username string) (int, error) {
	raw, found, err := l.kv.Get(ctx, l.failedKey(username))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAttemptsUnavailable, err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: malformed counter %q", ErrAttemptsUnavailable, raw)
	}
	return n, nil
}

// IncrementFailedAttempts bumps the counter and re-arms its TTL to the
// failure window in one atomic step. It returns the post-increment count.
//
//	Performance: 1 store command.
func (l *AttemptLimiter) IncrementFailedAttempts(ctx context.Context, username string) (int, error) {
	n, err := l.kv.IncrementWithExpiry(ctx, l.failedKey(username), l.config.FailureWindow)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAttemptsUnavailable, err)
	}
	return int(n), nil
}

// Lock (re)creates the lockout marker with a full lock duration. The failure
// counter is left untouched.
func (l *AttemptLimiter) Lock(ctx context.Context, username string) error {
	value := []byte(strconv.Itoa(l.config.Threshold))
	if err := l.kv.SetWithExpiry(ctx, l.lockedKey(username), value, l.config.LockDuration); err != nil {
		return fmt.Errorf("%w: %w", ErrAttemptsUnavailable, err)
	}
	return nil
}

// ClearFailedAttempts deletes both the counter and the lockout marker.
func (l *AttemptLimiter) ClearFailedAttempts(ctx context.Context, username string) error {
	if _, err := l.kv.Delete(ctx, l.failedKey(username), l.lockedKey(username)); err != nil {
		return fmt.Errorf("%w: %w", ErrAttemptsUnavailable, err)
	}
	return nil
}

// RemainingAttempts returns max(0, threshold - failed).
func (l *AttemptLimiter) RemainingAttempts(ctx context.Context, username string) (int, error) {
	n, err := l.FailedAttempts(ctx, username)
	if err != nil {
		return 0, err
	}
	return l.RemainingAfter(n), nil
}

// RemainingAfter converts a post-increment count into attempts left.
func (l *AttemptLimiter) RemainingAfter(count int) int {
	left := l.config.Threshold - count
	if left < 0 {
		return 0
	}
	return left
}

func ceilSeconds(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return ((d + time.Second - 1) / time.Second) * time.Second
}
