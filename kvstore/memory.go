package kvstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process [Store]. Expired entries are dropped lazily on
// access; there is no sweeper.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns an empty store driven by the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns an empty store that reads time from now.
func NewMemoryWithClock(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// lookup must be called with mu held.
func (m *Memory) lookup(key string, now time.Time) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func expiryFrom(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// Get implements [Store].
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key, m.now())
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// SetWithExpiry implements [Store].
func (m *Memory) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: stored, expiresAt: expiryFrom(m.now(), ttl)}
	return nil
}

// Delete implements [Store].
func (m *Memory) Delete(ctx context.Context, keys ...string) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var removed int64
	for _, key := range keys {
		if _, ok := m.lookup(key, now); ok {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

// RemainingTTL implements [Store].
func (m *Memory) RemainingTTL(ctx context.Context, key string) (time.Duration, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.lookup(key, now)
	if !ok || e.expiresAt.IsZero() {
		return 0, nil
	}
	return e.expiresAt.Sub(now), nil
}

// IncrementWithExpiry implements [Store]. A value that does not parse as a
// base-10 integer is treated as a backend failure, matching INCR on Redis.
// With ttl <= 0 an existing expiry is kept, as the Redis script does.
func (m *Memory) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var count int64
	var expiresAt time.Time
	if e, ok := m.lookup(key, now); ok {
		n, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: value is not an integer", ErrUnavailable)
		}
		count = n
		expiresAt = e.expiresAt
	}
	count++

	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}
	m.entries[key] = memoryEntry{
		value:     []byte(strconv.FormatInt(count, 10)),
		expiresAt: expiresAt,
	}
	return count, nil
}

// Expire implements [Store].
func (m *Memory) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, ErrInvalidTTL
	}
	if err := ctxErr(ctx); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.lookup(key, now)
	if !ok {
		return false, nil
	}
	e.expiresAt = now.Add(ttl)
	m.entries[key] = e
	return true, nil
}

// Len reports the number of live keys. Intended for tests.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for key := range m.entries {
		if _, ok := m.lookup(key, now); ok {
			n++
		}
	}
	return n
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
