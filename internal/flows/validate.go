package flows

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goLogin/session"
)

// ValidateMetrics carries metric IDs for session verification.
type ValidateMetrics struct {
	ValidateSuccess int
	ValidateMiss    int
}

// ValidateErrors carries host-level sentinel errors for session verification.
type ValidateErrors struct {
	EngineNotReady   error
	StoreUnavailable error
}

// ValidateDeps captures session verification dependencies.
type ValidateDeps struct {
	GetSession func(context.Context, string) (*session.Session, bool, error)

	MetricInc func(int)

	Metrics ValidateMetrics
	Errors  ValidateErrors
}

// RunValidate resolves a bearer token to its session. A miss is (nil, false,
// nil): unknown, expired and malformed tokens are not distinguished.
func RunValidate(ctx context.Context, token string, deps ValidateDeps) (*session.Session, bool, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.GetSession == nil {
		return nil, false, notReady(deps.Errors.EngineNotReady)
	}

	sess, found, err := deps.GetSession(ctx, token)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", deps.Errors.StoreUnavailable, err)
	}
	if !found {
		deps.MetricInc(deps.Metrics.ValidateMiss)
		return nil, false, nil
	}

	deps.MetricInc(deps.Metrics.ValidateSuccess)
	return sess, true, nil
}
