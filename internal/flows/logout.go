package flows

import (
	"context"
	"fmt"
	"time"
)

// LogoutSessionStore is the subset of the session store used by logout and
// refresh.
type LogoutSessionStore interface {
	Delete(ctx context.Context, token string) (bool, error)
	Refresh(ctx context.Context, token string) (bool, error)
	Lifetime() time.Duration
}

// LogoutMetrics carries metric IDs for logout and refresh.
type LogoutMetrics struct {
	LogoutSuccess  int
	LogoutMiss     int
	RefreshSuccess int
	RefreshMiss    int
}

// LogoutErrors carries host-level sentinel errors for logout and refresh.
type LogoutErrors struct {
	EngineNotReady   error
	StoreUnavailable error
}

// LogoutDeps captures logout and refresh dependencies.
type LogoutDeps struct {
	SessionStore LogoutSessionStore

	MetricInc func(int)

	Metrics LogoutMetrics
	Errors  LogoutErrors
}

// RunLogout deletes the session behind token. removed is false when nothing
// was there; repeating the call is harmless.
func RunLogout(ctx context.Context, token string, deps LogoutDeps) (bool, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.SessionStore == nil {
		return false, notReady(deps.Errors.EngineNotReady)
	}

	removed, err := deps.SessionStore.Delete(ctx, token)
	if err != nil {
		return false, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
	}
	if removed {
		deps.MetricInc(deps.Metrics.LogoutSuccess)
	} else {
		deps.MetricInc(deps.Metrics.LogoutMiss)
	}
	return removed, nil
}

// RunRefresh resets the session TTL to the full lifetime. It returns the new
// TTL, or 0 and false when the session does not exist.
func RunRefresh(ctx context.Context, token string, deps LogoutDeps) (time.Duration, bool, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.SessionStore == nil {
		return 0, false, notReady(deps.Errors.EngineNotReady)
	}

	ok, err := deps.SessionStore.Refresh(ctx, token)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
	}
	if !ok {
		deps.MetricInc(deps.Metrics.RefreshMiss)
		return 0, false, nil
	}

	deps.MetricInc(deps.Metrics.RefreshSuccess)
	return deps.SessionStore.Lifetime(), true, nil
}
