package flows

import (
	"context"
	"fmt"
)

type AccountStatusDeps struct {
	ClearFailedAttempts func(context.Context, string) error

	MetricInc func(int)
	EmitAudit func(ctx context.Context, eventType, status, userID, username, message string)

	UnlockMetric     int
	UnlockEvent      string
	EngineNotReady   error
	StoreUnavailable error
}

// RunUnlockAccount clears both the failure counter and any lockout marker for
// username. It is the administrative counterpart of a successful login.
func RunUnlockAccount(ctx context.Context, username string, deps AccountStatusDeps) error {
	if deps.ClearFailedAttempts == nil {
		return notReady(deps.EngineNotReady)
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, string, string, string, string) {}
	}

	if err := deps.ClearFailedAttempts(ctx, username); err != nil {
		return fmt.Errorf("%w: %w", deps.StoreUnavailable, err)
	}

	deps.MetricInc(deps.UnlockMetric)
	deps.EmitAudit(ctx, deps.UnlockEvent, AuditStatusSuccess, "", username, "account unlocked")
	return nil
}
