package goLogin

import (
	"context"

	internalflows "github.com/MrEthical07/goLogin/internal/flows"
)

// UnlockAccount clears the failure counter and any lockout for username.
// Unlocking an account that is not locked is not an error.
func (e *Engine) UnlockAccount(ctx context.Context, username string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	return internalflows.RunUnlockAccount(ctx, username, e.flows.AccountStatus)
}

// LockStatus reports whether username is locked and for how long, rounded
// up to whole seconds.
func (e *Engine) LockStatus(ctx context.Context, username string) (LockState, error) {
	if e == nil || e.attempts == nil {
		return LockState{}, ErrEngineNotReady
	}
	state, err := e.attempts.IsLocked(ctx, username)
	if err != nil {
		return LockState{}, wrapStore(err)
	}
	return state, nil
}

// FailedAttempts returns the current failure count for username.
func (e *Engine) FailedAttempts(ctx context.Context, username string) (int, error) {
	if e == nil || e.attempts == nil {
		return 0, ErrEngineNotReady
	}
	n, err := e.attempts.FailedAttempts(ctx, username)
	if err != nil {
		return 0, wrapStore(err)
	}
	return n, nil
}

// RemainingAttempts returns how many more failures username may accumulate
// before the next one locks it, never below zero.
func (e *Engine) RemainingAttempts(ctx context.Context, username string) (int, error) {
	if e == nil || e.attempts == nil {
		return 0, ErrEngineNotReady
	}
	n, err := e.attempts.RemainingAttempts(ctx, username)
	if err != nil {
		return 0, wrapStore(err)
	}
	return n, nil
}
