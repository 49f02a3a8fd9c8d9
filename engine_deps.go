package goLogin

import (
	"context"
	"fmt"
	"time"

	internalflows "github.com/MrEthical07/goLogin/internal/flows"
	"github.com/MrEthical07/goLogin/validation"
)

func wrapStore(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func (e *Engine) buildFlowDeps() internalflows.Deps {
	return internalflows.Deps{
		Login:         e.loginFlowDeps(),
		Validate:      e.validateFlowDeps(),
		Logout:        e.logoutFlowDeps(),
		Account:       e.accountFlowDeps(),
		AccountStatus: e.accountStatusFlowDeps(),
	}
}

func (e *Engine) metricIncFunc() func(int) {
	return func(id int) {
		e.metricInc(MetricID(id))
	}
}

func (e *Engine) loginFlowDeps() internalflows.LoginDeps {
	deps := internalflows.LoginDeps{
		Threshold:    e.config.Login.MaxLoginAttempts,
		LockDuration: e.config.Login.LockDuration,
		MetricInc:    e.metricIncFunc(),
		EmitAudit:    e.emitAudit,
		Warn: func(format string, args ...any) {
			e.logger.Warn(fmt.Sprintf(format, args...))
		},
		Metrics: internalflows.LoginMetrics{
			LoginSuccess:       int(MetricLoginSuccess),
			LoginFailure:       int(MetricLoginFailure),
			LoginLocked:        int(MetricLoginLocked),
			LoginUserNotFound:  int(MetricLoginUserNotFound),
			AccountLocked:      int(MetricAccountLocked),
			SessionCreated:     int(MetricSessionCreated),
			LoginInfraFailure:  int(MetricLoginInfraFailure),
			HashVerifyFailures: int(MetricPasswordHashError),
		},
		Events: internalflows.LoginEvents{
			LoginSuccess: auditEventLoginSuccess,
			LoginFailure: auditEventLoginFailure,
			LoginLocked:  auditEventLoginLocked,
		},
		Errors: internalflows.LoginErrors{
			EngineNotReady:        ErrEngineNotReady,
			InvalidInput:          ErrInvalidInput,
			StoreUnavailable:      ErrStoreUnavailable,
			UserStoreUnavailable:  ErrUserStoreUnavailable,
			SessionCreationFailed: ErrSessionCreationFailed,
		},
	}

	if e.attempts != nil {
		deps.IsLocked = func(ctx context.Context, username string) (bool, time.Duration, error) {
			state, err := e.attempts.IsLocked(ctx, username)
			if err != nil {
				return false, 0, err
			}
			return state.Locked, state.Remaining, nil
		}
		deps.IncrementFailedAttempts = e.attempts.IncrementFailedAttempts
		deps.Lock = e.attempts.Lock
		deps.ClearFailedAttempts = e.attempts.ClearFailedAttempts
	}
	if e.userStore != nil {
		deps.FindUser = func(ctx context.Context, username string) (*internalflows.LoginUserRecord, error) {
			user, err := e.userStore.FindByUsername(ctx, username)
			if err != nil || user == nil {
				return nil, err
			}
			return &internalflows.LoginUserRecord{
				UserID:       user.ID,
				Username:     user.Username,
				PasswordHash: user.PasswordHash,
			}, nil
		}
	}
	if e.credential != nil {
		deps.VerifyPassword = e.credential.Verify
	}
	if upgrader, ok := e.credential.(PasswordUpgrader); ok && e.userStore != nil {
		deps.PasswordUpgradeOnLogin = e.config.Password.UpgradeOnLogin
		deps.PasswordNeedsUpgrade = upgrader.NeedsUpgrade
		deps.HashPassword = e.credential.Hash
		deps.UpdatePasswordHash = e.userStore.UpdatePasswordHash
	}
	if e.sessionStore != nil {
		deps.CreateSession = func(ctx context.Context, userID, username string) (string, time.Duration, error) {
			issued, err := e.sessionStore.Create(ctx, userID, username)
			if err != nil {
				return "", 0, err
			}
			return issued.Token, issued.TTL, nil
		}
	}

	return deps
}

func (e *Engine) validateFlowDeps() internalflows.ValidateDeps {
	deps := internalflows.ValidateDeps{
		MetricInc: e.metricIncFunc(),
		Metrics: internalflows.ValidateMetrics{
			ValidateSuccess: int(MetricSessionValidated),
			ValidateMiss:    int(MetricSessionMiss),
		},
		Errors: internalflows.ValidateErrors{
			EngineNotReady:   ErrEngineNotReady,
			StoreUnavailable: ErrStoreUnavailable,
		},
	}
	if e.sessionStore != nil {
		deps.GetSession = e.sessionStore.Get
	}
	return deps
}

func (e *Engine) logoutFlowDeps() internalflows.LogoutDeps {
	deps := internalflows.LogoutDeps{
		MetricInc: e.metricIncFunc(),
		Metrics: internalflows.LogoutMetrics{
			LogoutSuccess:  int(MetricLogout),
			LogoutMiss:     int(MetricLogoutMiss),
			RefreshSuccess: int(MetricSessionRefreshed),
			RefreshMiss:    int(MetricSessionRefreshMiss),
		},
		Errors: internalflows.LogoutErrors{
			EngineNotReady:   ErrEngineNotReady,
			StoreUnavailable: ErrStoreUnavailable,
		},
	}
	if e.sessionStore != nil {
		deps.SessionStore = e.sessionStore
	}
	return deps
}

func (e *Engine) accountFlowDeps() internalflows.AccountDeps {
	deps := internalflows.AccountDeps{
		ValidateUsername: validation.Username,
		ValidatePassword: validation.PasswordStrength,
		ValidateEmail:    validation.Email,
		MetricInc:        e.metricIncFunc(),
		EmitAudit:        e.emitAudit,
		Metrics: internalflows.AccountMetrics{
			AccountCreationSuccess:   int(MetricAccountCreationSuccess),
			AccountCreationDuplicate: int(MetricAccountCreationDuplicate),
			AccountCreationInvalid:   int(MetricAccountCreationInvalid),
		},
		Events: internalflows.AccountEvents{
			AccountCreationSuccess:   auditEventAccountCreationSuccess,
			AccountCreationFailure:   auditEventAccountCreationFailure,
			AccountCreationDuplicate: auditEventAccountCreationDuplicate,
		},
		Errors: internalflows.AccountErrors{
			EngineNotReady:       ErrEngineNotReady,
			Validation:           ErrValidation,
			UsernameTaken:        ErrUsernameTaken,
			UserStoreUnavailable: ErrUserStoreUnavailable,
			PasswordHashFailed:   ErrPasswordHashFailed,
		},
	}
	if e.credential != nil {
		deps.HashPassword = e.credential.Hash
	}
	if e.userStore != nil {
		deps.CreateUser = func(ctx context.Context, in internalflows.AccountCreateUserInput) (internalflows.AccountCreateResult, error) {
			user, err := e.userStore.Create(ctx, CreateUserInput{
				Username:     in.Username,
				PasswordHash: in.PasswordHash,
				Email:        in.Email,
			})
			if err != nil {
				return internalflows.AccountCreateResult{}, err
			}
			return internalflows.AccountCreateResult{UserID: user.ID, Username: user.Username}, nil
		}
	}
	return deps
}

func (e *Engine) accountStatusFlowDeps() internalflows.AccountStatusDeps {
	deps := internalflows.AccountStatusDeps{
		MetricInc:        e.metricIncFunc(),
		EmitAudit:        e.emitAudit,
		UnlockMetric:     int(MetricAccountUnlocked),
		UnlockEvent:      auditEventAccountUnlocked,
		EngineNotReady:   ErrEngineNotReady,
		StoreUnavailable: ErrStoreUnavailable,
	}
	if e.attempts != nil {
		deps.ClearFailedAttempts = e.attempts.ClearFailedAttempts
	}
	return deps
}
