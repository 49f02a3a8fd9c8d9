package goLogin

import (
	"context"
	"time"

	"github.com/MrEthical07/goLogin/internal/flows"
	"github.com/MrEthical07/goLogin/internal/limiters"
)

// User is the persisted account record.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserInput is what Register hands to [UserStore.Create]. The password
// is already hashed.
type CreateUserInput struct {
	Username     string
	PasswordHash string
	Email        string
}

// UserStore is the durable user directory.
//
// Find methods return (nil, nil) when no user matches; an error always means
// the store itself failed. Create returns an error matching [ErrUsernameTaken]
// on a duplicate username. UpdatePasswordHash returns an error matching
// [ErrUserNotFound] when id does not exist.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, input CreateUserInput) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// Credential hashes and verifies passwords. Verify returns (false, nil) on a
// mismatch and an error only when the hash cannot be interpreted.
// [password.Multi] is the stock implementation.
type Credential interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encodedHash string) (bool, error)
}

// PasswordUpgrader is implemented by credentials that can tell when a stored
// hash uses an outdated algorithm or cost. When the configured [Credential]
// implements it and Config.Password.UpgradeOnLogin is set, a successful login
// rehashes the password and stores the new hash.
type PasswordUpgrader interface {
	NeedsUpgrade(encodedHash string) (bool, error)
}

// AuditLog persists audit events, typically to a login log table. Errors and
// panics from Record are logged and swallowed; they never change a login
// outcome.
type AuditLog interface {
	Record(ctx context.Context, event AuditEvent) error
}

// Login result types shared with the flow and limiter packages.
type (
	LoginOutcome     = flows.Outcome
	LoginOutcomeKind = flows.OutcomeKind
	LockState        = limiters.LockState
)

// Login outcome kinds.
const (
	OutcomeLocked             = flows.OutcomeLocked
	OutcomeInvalidCredentials = flows.OutcomeInvalidCredentials
	OutcomeNewlyLocked        = flows.OutcomeNewlyLocked
	OutcomeSuccess            = flows.OutcomeSuccess
)

// Audit status values carried by [AuditEvent.Status].
const (
	AuditStatusSuccess = flows.AuditStatusSuccess
	AuditStatusFailed  = flows.AuditStatusFailed
	AuditStatusLocked  = flows.AuditStatusLocked
)

// SessionInfo is the public view of a live session.
type SessionInfo struct {
	Token     string
	UserID    string
	Username  string
	CreatedAt time.Time
}

// RegisterResult identifies a newly created account.
type RegisterResult struct {
	UserID   string
	Username string
}
