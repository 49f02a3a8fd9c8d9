package flows

import (
	"context"
	"fmt"
	"time"
)

// OutcomeKind classifies a completed login decision.
type OutcomeKind uint8

const (
	// OutcomeLocked means the account was already locked; nothing was checked.
	OutcomeLocked OutcomeKind = iota + 1
	// OutcomeInvalidCredentials covers both unknown username and wrong password.
	OutcomeInvalidCredentials
	// OutcomeNewlyLocked means this failure reached the threshold.
	OutcomeNewlyLocked
	// OutcomeSuccess carries a freshly issued session.
	OutcomeSuccess
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeLocked:
		return "locked"
	case OutcomeInvalidCredentials:
		return "invalid_credentials"
	case OutcomeNewlyLocked:
		return "newly_locked"
	case OutcomeSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Outcome is the value returned by [RunLogin]. Which fields are set depends on
// Kind:
//
//	Locked, NewlyLocked:  RemainingSeconds
//	InvalidCredentials:   RemainingAttempts
//	Success:              Token, TTL, UserID, Username
type Outcome struct {
	Kind              OutcomeKind
	Message           string
	RemainingSeconds  int
	RemainingAttempts int

	Token    string
	TTL      time.Duration
	UserID   string
	Username string
}

// LoginUserRecord is a flow-local user model.
type LoginUserRecord struct {
	UserID       string
	Username     string
	PasswordHash string
}

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	LoginSuccess       int
	LoginFailure       int
	LoginLocked        int
	LoginUserNotFound  int
	AccountLocked      int
	SessionCreated     int
	LoginInfraFailure  int
	HashVerifyFailures int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	LoginSuccess string
	LoginFailure string
	LoginLocked  string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady        error
	InvalidInput          error
	StoreUnavailable      error
	UserStoreUnavailable  error
	SessionCreationFailed error
}

// Audit status values written with every login event.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
	AuditStatusLocked  = "locked"
)

// LoginDeps captures login dependencies.
type LoginDeps struct {
	Threshold    int
	LockDuration time.Duration

	IsLocked                func(context.Context, string) (bool, time.Duration, error)
	IncrementFailedAttempts func(context.Context, string) (int, error)
	Lock                    func(context.Context, string) error
	ClearFailedAttempts     func(context.Context, string) error

	FindUser       func(context.Context, string) (*LoginUserRecord, error)
	VerifyPassword func(plaintext, hash string) (bool, error)
	CreateSession  func(ctx context.Context, userID, username string) (string, time.Duration, error)

	// Optional rehash of outdated hashes after a verified password.
	PasswordUpgradeOnLogin bool
	PasswordNeedsUpgrade   func(string) (bool, error)
	HashPassword           func(string) (string, error)
	UpdatePasswordHash     func(ctx context.Context, userID, hash string) error

	MetricInc func(int)
	EmitAudit func(ctx context.Context, eventType, status, userID, username, message string)
	Warn      func(string, ...any)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

func normalizeLoginDeps(deps *LoginDeps) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, string, string, string, string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
}

// RunLogin executes the login state machine:
//
//	lock check -> identity lookup -> credential check -> counter update -> session
//
// It returns exactly one of an [Outcome] or an error. Errors are reserved for
// invalid input and infrastructure failures; authentication failures are
// outcomes.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) (*Outcome, error) {
	normalizeLoginDeps(&deps)

	if deps.IsLocked == nil ||
		deps.IncrementFailedAttempts == nil ||
		deps.Lock == nil ||
		deps.ClearFailedAttempts == nil ||
		deps.FindUser == nil ||
		deps.VerifyPassword == nil ||
		deps.CreateSession == nil {
		return nil, notReady(deps.Errors.EngineNotReady)
	}
	if username == "" || password == "" {
		return nil, deps.Errors.InvalidInput
	}

	// 1. Lock check. A store failure here fails closed: no outcome at all.
	locked, remaining, err := deps.IsLocked(ctx, username)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginInfraFailure)
		return nil, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
	}
	if locked {
		secs := int(remaining / time.Second)
		deps.MetricInc(deps.Metrics.LoginLocked)
		deps.EmitAudit(ctx, deps.Events.LoginLocked, AuditStatusLocked, "", username, "account locked")
		return &Outcome{
			Kind:             OutcomeLocked,
			Message:          lockedMessage(secs),
			RemainingSeconds: secs,
		}, nil
	}

	// 2. Identity lookup.
	user, err := deps.FindUser(ctx, username)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginInfraFailure)
		return nil, fmt.Errorf("%w: %w", deps.Errors.UserStoreUnavailable, err)
	}
	if user == nil {
		count, err := deps.IncrementFailedAttempts(ctx, username)
		if err != nil {
			deps.MetricInc(deps.Metrics.LoginInfraFailure)
			return nil, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
		}
		left := remainingAttempts(deps.Threshold, count)

		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.MetricInc(deps.Metrics.LoginUserNotFound)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, AuditStatusFailed, "", username, "user not found")
		return &Outcome{
			Kind:              OutcomeInvalidCredentials,
			Message:           invalidCredentialsMessage(left),
			RemainingAttempts: left,
		}, nil
	}

	// 3. Credential verification. A hash that cannot be parsed counts as a
	// mismatch.
	ok, err := deps.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		deps.MetricInc(deps.Metrics.HashVerifyFailures)
		deps.Warn("goLogin: password hash verification failed for user %s: %v", user.UserID, err)
		ok = false
	}
	if !ok {
		count, err := deps.IncrementFailedAttempts(ctx, username)
		if err != nil {
			deps.MetricInc(deps.Metrics.LoginInfraFailure)
			return nil, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
		}

		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, AuditStatusFailed, user.UserID, username,
			fmt.Sprintf("wrong password, failure %d", count))

		if count >= deps.Threshold {
			if err := deps.Lock(ctx, username); err != nil {
				deps.MetricInc(deps.Metrics.LoginInfraFailure)
				return nil, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
			}
			secs := int(deps.LockDuration / time.Second)
			deps.MetricInc(deps.Metrics.AccountLocked)
			return &Outcome{
				Kind:             OutcomeNewlyLocked,
				Message:          newlyLockedMessage(secs),
				RemainingSeconds: secs,
			}, nil
		}

		left := remainingAttempts(deps.Threshold, count)
		return &Outcome{
			Kind:              OutcomeInvalidCredentials,
			Message:           invalidCredentialsMessage(left),
			RemainingAttempts: left,
		}, nil
	}

	// 4. Success.
	upgradePasswordHash(ctx, user, password, deps)

	if err := deps.ClearFailedAttempts(ctx, username); err != nil {
		deps.MetricInc(deps.Metrics.LoginInfraFailure)
		return nil, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
	}

	token, ttl, err := deps.CreateSession(ctx, user.UserID, user.Username)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginInfraFailure)
		return nil, fmt.Errorf("%w: %w", deps.Errors.SessionCreationFailed, err)
	}

	deps.MetricInc(deps.Metrics.LoginSuccess)
	deps.MetricInc(deps.Metrics.SessionCreated)
	deps.EmitAudit(ctx, deps.Events.LoginSuccess, AuditStatusSuccess, user.UserID, username, "login successful")

	return &Outcome{
		Kind:     OutcomeSuccess,
		Message:  "login successful",
		Token:    token,
		TTL:      ttl,
		UserID:   user.UserID,
		Username: user.Username,
	}, nil
}

// upgradePasswordHash is best effort: failures are logged and never change
// the login outcome.
func upgradePasswordHash(ctx context.Context, user *LoginUserRecord, password string, deps LoginDeps) {
	if !deps.PasswordUpgradeOnLogin ||
		deps.PasswordNeedsUpgrade == nil ||
		deps.HashPassword == nil ||
		deps.UpdatePasswordHash == nil {
		return
	}
	needsUpgrade, err := deps.PasswordNeedsUpgrade(user.PasswordHash)
	if err != nil || !needsUpgrade {
		return
	}
	upgraded, err := deps.HashPassword(password)
	if err != nil {
		deps.Warn("goLogin: password hash upgrade generation failed for user %s: %v", user.UserID, err)
		return
	}
	if err := deps.UpdatePasswordHash(ctx, user.UserID, upgraded); err != nil {
		deps.Warn("goLogin: password hash upgrade update failed for user %s: %v", user.UserID, err)
	}
}

func remainingAttempts(threshold, count int) int {
	left := threshold - count
	if left < 0 {
		return 0
	}
	return left
}

// Unknown user and wrong password share this template.
func invalidCredentialsMessage(remaining int) string {
	return fmt.Sprintf("invalid username or password, %d attempts remaining", remaining)
}

func lockedMessage(seconds int) string {
	return fmt.Sprintf("account is locked, try again in %d minutes %d seconds", seconds/60, seconds%60)
}

func newlyLockedMessage(seconds int) string {
	return fmt.Sprintf("too many failed attempts, account locked for %d minutes", seconds/60)
}
