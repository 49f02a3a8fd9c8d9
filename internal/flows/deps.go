package flows

import "errors"

// ErrDepsMissing is returned when a required dependency is unset and the
// deps carry no EngineNotReady error of their own.
var ErrDepsMissing = errors.New("flow dependencies missing")

// Deps groups flow dependency sets. Root engine builds this once and delegates
// request methods to the matching flow implementation.
type Deps struct {
	Login         LoginDeps
	Validate      ValidateDeps
	Logout        LogoutDeps
	Account       AccountDeps
	AccountStatus AccountStatusDeps
}

func notReady(err error) error {
	if err != nil {
		return err
	}
	return ErrDepsMissing
}
