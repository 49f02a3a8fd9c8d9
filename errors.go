package goLogin

import "errors"

var (
	// ErrEngineNotReady is returned by methods on a nil or partially built Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidInput is returned by Login for an empty username or password.
	ErrInvalidInput = errors.New("username and password are required")
	// ErrValidation wraps a validation package error at Register.
	ErrValidation = errors.New("validation failed")
	// ErrUsernameTaken is returned by UserStore.Create and Register on a duplicate username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrStoreUnavailable wraps key-value store failures, including session
	// records that fail to decode.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrUserStoreUnavailable wraps UserStore failures.
	ErrUserStoreUnavailable = errors.New("user store unavailable")
	// ErrSessionCreationFailed is returned when a successful login could not
	// be turned into a session.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrPasswordHashFailed is returned when hashing a new password fails.
	ErrPasswordHashFailed = errors.New("password hashing failed")
	// ErrUnauthorized is returned by CurrentUser when the token has no live session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound is returned when a session or ID points at a user that
	// no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
