package goLogin

import (
	"context"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/goLogin/internal/audit"
	internalflows "github.com/MrEthical07/goLogin/internal/flows"
	"github.com/MrEthical07/goLogin/internal/limiters"
	"github.com/MrEthical07/goLogin/kvstore"
	"github.com/MrEthical07/goLogin/session"
)

// Engine is the login and session facade. Build one with [New] and
// [Builder.Build].
//
// Engine holds no per-request state: every decision is derived from the
// key-value store and the user store, so any number of Engines (or
// processes) may share one Redis. Methods are safe for concurrent use.
type Engine struct {
	config       Config
	store        kvstore.Store
	sessionStore *session.Store
	attempts     *limiters.AttemptLimiter
	userStore    UserStore
	credential   Credential
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
	logger       *slog.Logger
	flows        internalflows.Deps
}

// Close drains pending audit events. The key-value store and user store are
// owned by the caller and stay open.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Config returns a copy of the effective configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// ready is false for a nil Engine and for one not produced by Build.
func (e *Engine) ready() bool {
	return e != nil && e.store != nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observe(id MetricID, start time.Time) {
	if e == nil || !e.metrics.LatencyEnabled() {
		return
	}
	e.metrics.Observe(id, time.Since(start))
}

// Login runs the attempt-limited login state machine for one request.
//
// Authentication failures are outcomes, not errors: the returned
// [LoginOutcome] has Kind Locked, InvalidCredentials, NewlyLocked or Success.
// An error is returned only for empty input ([ErrInvalidInput]) or when a
// backing store fails ([ErrStoreUnavailable], [ErrUserStoreUnavailable],
// [ErrSessionCreationFailed]). A store failure during the lock check never
// lets the attempt through.
//
//	Flow: lock check -> user lookup -> credential check -> counter -> session
//	Performance: 2-4 store round trips plus one hash verification.
func (e *Engine) Login(ctx context.Context, username, password string) (*LoginOutcome, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	start := time.Now()
	defer e.observe(MetricLoginLatency, start)

	return internalflows.RunLogin(ctx, username, password, e.flows.Login)
}

// VerifySession resolves token to its session. Unknown, expired and
// malformed tokens all yield (nil, false, nil). Verification does not extend
// the session.
func (e *Engine) VerifySession(ctx context.Context, token string) (*SessionInfo, bool, error) {
	if !e.ready() {
		return nil, false, ErrEngineNotReady
	}
	start := time.Now()
	defer e.observe(MetricValidateLatency, start)

	sess, found, err := internalflows.RunValidate(ctx, token, e.flows.Validate)
	if err != nil || !found {
		return nil, false, err
	}
	return toSessionInfo(sess), true, nil
}

// Logout deletes the session behind token. It reports whether a session was
// removed; logging out twice is not an error.
func (e *Engine) Logout(ctx context.Context, token string) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}
	return internalflows.RunLogout(ctx, token, e.flows.Logout)
}

// RefreshSession resets the session TTL to Config.Session.Lifetime. It never
// creates a session; for an unknown token it returns (0, false, nil).
func (e *Engine) RefreshSession(ctx context.Context, token string) (time.Duration, bool, error) {
	if !e.ready() {
		return 0, false, ErrEngineNotReady
	}
	return internalflows.RunRefresh(ctx, token, e.flows.Logout)
}

// SessionTTL returns the remaining lifetime of token's session, 0 when absent.
func (e *Engine) SessionTTL(ctx context.Context, token string) (time.Duration, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}
	ttl, err := e.sessionStore.RemainingTTL(ctx, token)
	if err != nil {
		return 0, wrapStore(err)
	}
	return ttl, nil
}

// Ping checks the key-value store when it supports health checks and
// returns the round trip time.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	if e == nil || e.store == nil {
		return 0, ErrEngineNotReady
	}
	p, ok := e.store.(interface {
		Ping(context.Context) (time.Duration, error)
	})
	if !ok {
		return 0, nil
	}
	d, err := p.Ping(ctx)
	if err != nil {
		return d, wrapStore(err)
	}
	return d, nil
}

func toSessionInfo(s *session.Session) *SessionInfo {
	return &SessionInfo{
		Token:     s.Token,
		UserID:    s.UserID,
		Username:  s.Username,
		CreatedAt: time.Unix(s.CreatedAt, 0).UTC(),
	}
}
