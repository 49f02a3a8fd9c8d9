package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goLogin/internal"
	"github.com/MrEthical07/goLogin/kvstore"
)

// ErrCorrupt is returned when a stored payload cannot be decoded. It is an
// infrastructure failure, never an "absent" result.
var ErrCorrupt = errors.New("session record corrupt")

// ErrTokenGeneration is returned when the system random source fails.
var ErrTokenGeneration = errors.New("session token generation failed")

// Store persists opaque-token sessions in a [kvstore.Store].
//
// Each record has a fixed TTL equal to the configured lifetime. Reads never
// touch the TTL; only [Store.Refresh] resets it. Tokens that could not have
// been issued by Create are treated as absent without a store round trip.
type Store struct {
	kv       kvstore.Store
	prefix   string
	lifetime time.Duration
	now      func() time.Time
}

// NewStore creates a session [Store]. prefix is the key namespace shared with
// the attempt limiter (for example "user_login:").
func NewStore(kv kvstore.Store, prefix string, lifetime time.Duration) *Store {
	return &Store{
		kv:       kv,
		prefix:   prefix,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Lifetime reports the TTL given to new and refreshed sessions.
func (s *Store) Lifetime() time.Duration {
	return s.lifetime
}

func (s *Store) key(token string) string {
	return s.prefix + "session:" + token
}

func wellFormed(token string) bool {
	_, err := internal.ParseSessionToken(token)
	return err == nil
}

// Create issues a fresh token and stores {userID, username, createdAt} under
// it. Multiple live sessions per user are allowed.
//
//	Performance: 1 store write.
func (s *Store) Create(ctx context.Context, userID, username string) (*Issued, error) {
	tok, err := internal.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	token := tok.String()

	data, err := Encode(&Session{
		SchemaVersion: CurrentSchemaVersion,
		UserID:        userID,
		Username:      username,
		CreatedAt:     s.now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.kv.SetWithExpiry(ctx, s.key(token), data, s.lifetime); err != nil {
		return nil, err
	}

	return &Issued{Token: token, TTL: s.lifetime}, nil
}

// Get resolves token. Unknown, expired and malformed tokens all come back as
// (nil, false, nil).
//
//	Performance: 1 store read.
func (s *Store) Get(ctx context.Context, token string) (*Session, bool, error) {
	if !wellFormed(token) {
		return nil, false, nil
	}

	data, found, err := s.kv.Get(ctx, s.key(token))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	sess.Token = token

	return sess, true, nil
}

// Delete removes the session. It reports whether a record existed and is
// safe to repeat.
func (s *Store) Delete(ctx context.Context, token string) (bool, error) {
	if !wellFormed(token) {
		return false, nil
	}

	n, err := s.kv.Delete(ctx, s.key(token))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Refresh resets the remaining lifetime to the full configured lifetime. It
// never extends additively and never creates a record.
//
//	Performance: 1 store command.
func (s *Store) Refresh(ctx context.Context, token string) (bool, error) {
	if !wellFormed(token) {
		return false, nil
	}
	return s.kv.Expire(ctx, s.key(token), s.lifetime)
}

// RemainingTTL reports the time left on a session; <= 0 when absent.
func (s *Store) RemainingTTL(ctx context.Context, token string) (time.Duration, error) {
	if !wellFormed(token) {
		return 0, nil
	}
	return s.kv.RemainingTTL(ctx, s.key(token))
}
