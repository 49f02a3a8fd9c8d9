package goLogin

import (
	"context"
	"fmt"

	internalflows "github.com/MrEthical07/goLogin/internal/flows"
)

// Register validates the request, hashes the password with the configured
// [Credential] and creates the user.
//
// Validation failures wrap [ErrValidation] together with the specific
// validation sentinel. A duplicate username returns [ErrUsernameTaken]. The
// email is optional.
func (e *Engine) Register(ctx context.Context, username, password, email string) (*RegisterResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	res, err := internalflows.RunCreateAccount(ctx, internalflows.AccountCreateRequest{
		Username: username,
		Password: password,
		Email:    email,
	}, e.flows.Account)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{UserID: res.UserID, Username: res.Username}, nil
}

// GetUser loads a user by ID. It returns [ErrUserNotFound] when absent.
func (e *Engine) GetUser(ctx context.Context, id string) (*User, error) {
	if e == nil || e.userStore == nil {
		return nil, ErrEngineNotReady
	}
	user, err := e.userStore.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserStoreUnavailable, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CurrentUser verifies token and loads the session's user.
//
// It returns [ErrUnauthorized] when the token has no live session and
// [ErrUserNotFound] when the session outlived its user.
func (e *Engine) CurrentUser(ctx context.Context, token string) (*User, error) {
	info, found, err := e.VerifySession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnauthorized
	}
	return e.GetUser(ctx, info.UserID)
}
