package flows

import (
	"context"
	"errors"
	"fmt"
)

// AccountCreateRequest is the flow-local registration input.
type AccountCreateRequest struct {
	Username string
	Password string
	Email    string
}

// AccountCreateUserInput is what the flow hands to the user store.
type AccountCreateUserInput struct {
	Username     string
	PasswordHash string
	Email        string
}

// AccountCreateResult is the flow-local registration response.
type AccountCreateResult struct {
	UserID   string
	Username string
}

type AccountMetrics struct {
	AccountCreationSuccess   int
	AccountCreationDuplicate int
	AccountCreationInvalid   int
}

type AccountEvents struct {
	AccountCreationSuccess   string
	AccountCreationFailure   string
	AccountCreationDuplicate string
}

type AccountErrors struct {
	EngineNotReady       error
	Validation           error
	UsernameTaken        error
	UserStoreUnavailable error
	PasswordHashFailed   error
}

type AccountDeps struct {
	ValidateUsername func(string) error
	ValidatePassword func(string) error
	ValidateEmail    func(string) error

	HashPassword func(string) (string, error)
	CreateUser   func(context.Context, AccountCreateUserInput) (AccountCreateResult, error)

	MetricInc func(int)
	EmitAudit func(ctx context.Context, eventType, status, userID, username, message string)

	Metrics AccountMetrics
	Events  AccountEvents
	Errors  AccountErrors
}

func normalizeAccountDeps(deps *AccountDeps) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, string, string, string, string) {}
	}
	if deps.ValidateEmail == nil {
		deps.ValidateEmail = func(string) error { return nil }
	}
}

// RunCreateAccount validates, hashes and stores a new user. The email is
// optional and only validated when present.
func RunCreateAccount(ctx context.Context, req AccountCreateRequest, deps AccountDeps) (*AccountCreateResult, error) {
	normalizeAccountDeps(&deps)

	if deps.ValidateUsername == nil ||
		deps.ValidatePassword == nil ||
		deps.HashPassword == nil ||
		deps.CreateUser == nil {
		return nil, notReady(deps.Errors.EngineNotReady)
	}

	invalid := func(err error) (*AccountCreateResult, error) {
		deps.MetricInc(deps.Metrics.AccountCreationInvalid)
		deps.EmitAudit(ctx, deps.Events.AccountCreationFailure, AuditStatusFailed, "", req.Username, err.Error())
		return nil, fmt.Errorf("%w: %w", deps.Errors.Validation, err)
	}

	if err := deps.ValidateUsername(req.Username); err != nil {
		return invalid(err)
	}
	if err := deps.ValidatePassword(req.Password); err != nil {
		return invalid(err)
	}
	if req.Email != "" {
		if err := deps.ValidateEmail(req.Email); err != nil {
			return invalid(err)
		}
	}

	hash, err := deps.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", deps.Errors.PasswordHashFailed, err)
	}

	created, err := deps.CreateUser(ctx, AccountCreateUserInput{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
	})
	if err != nil {
		if errors.Is(err, deps.Errors.UsernameTaken) {
			deps.MetricInc(deps.Metrics.AccountCreationDuplicate)
			deps.EmitAudit(ctx, deps.Events.AccountCreationDuplicate, AuditStatusFailed, "", req.Username, "username taken")
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", deps.Errors.UserStoreUnavailable, err)
	}

	deps.MetricInc(deps.Metrics.AccountCreationSuccess)
	deps.EmitAudit(ctx, deps.Events.AccountCreationSuccess, AuditStatusSuccess, created.UserID, created.Username, "registered")
	return &created, nil
}
