package goLogin

import (
	"errors"
	"fmt"
	"log/slog"

	internalaudit "github.com/MrEthical07/goLogin/internal/audit"
	"github.com/MrEthical07/goLogin/internal/limiters"
	"github.com/MrEthical07/goLogin/kvstore"
	"github.com/MrEthical07/goLogin/password"
	"github.com/MrEthical07/goLogin/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. A Builder is single use: the second call to
// [Builder.Build] fails.
//
//	engine, err := goLogin.New().
//		WithRedis(rdb).
//		WithUserStore(users).
//		Build()
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  kvstore.Store

	userStore  UserStore
	credential Credential
	auditLog   AuditLog
	auditSink  AuditSink
	logger     *slog.Logger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis backs sessions and attempt counters with client. Ignored when
// [Builder.WithStore] is also called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore backs sessions and attempt counters with an arbitrary
// [kvstore.Store], typically [kvstore.Memory] in tests.
func (b *Builder) WithStore(store kvstore.Store) *Builder {
	b.store = store
	return b
}

func (b *Builder) WithUserStore(users UserStore) *Builder {
	b.userStore = users
	return b
}

// WithCredential replaces the password hasher built from Config.Password.
func (b *Builder) WithCredential(c Credential) *Builder {
	b.credential = c
	return b
}

// WithAuditLog persists every audit event through log. It runs on the audit
// dispatcher goroutine, never on the request path.
func (b *Builder) WithAuditLog(log AuditLog) *Builder {
	b.auditLog = log
	return b
}

// WithAuditSink adds a raw event sink, for example [NewJSONWriterSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger for non-decision warnings. Defaults to slog.Default().
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires every component.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- KEY-VALUE STORE --------
	kv := b.store
	if kv == nil {
		if b.redis == nil {
			return nil, errors.New("redis client or key-value store required")
		}
		kv = kvstore.NewRedis(b.redis, kvstore.RedisOptions{
			OperationTimeout: cfg.Store.OperationTimeout,
		})
	}

	if b.userStore == nil {
		return nil, errors.New("user store required")
	}

	// -------- CREDENTIAL --------
	credential := b.credential
	if credential == nil {
		multi, err := newCredential(cfg.Password)
		if err != nil {
			return nil, err
		}
		credential = multi
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		config:     cfg,
		store:      kv,
		userStore:  b.userStore,
		credential: credential,
		logger:     logger,
		metrics:    NewMetrics(cfg.Metrics),
	}

	// -------- SESSIONS & ATTEMPTS --------
	e.sessionStore = session.NewStore(kv, cfg.Store.KeyPrefix, cfg.Session.Lifetime)
	e.attempts = limiters.NewAttemptLimiter(kv, limiters.AttemptConfig{
		Prefix:        cfg.Store.KeyPrefix,
		Threshold:     cfg.Login.MaxLoginAttempts,
		LockDuration:  cfg.Login.LockDuration,
		FailureWindow: cfg.Login.FailureWindow,
	})

	// -------- AUDIT --------
	if sink := b.buildAuditSink(logger); cfg.Audit.Enabled && sink != nil {
		e.audit = internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    true,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
			OnPanic: func(r any) {
				logger.Warn("goLogin: audit sink panicked", "panic", r)
			},
		}, sink)
	}

	e.flows = e.buildFlowDeps()

	b.built = true
	return e, nil
}

func (b *Builder) buildAuditSink(logger *slog.Logger) AuditSink {
	var sinks MultiSink
	if b.auditLog != nil {
		sinks = append(sinks, &auditLogSink{log: b.auditLog, logger: logger})
	}
	if b.auditSink != nil {
		sinks = append(sinks, b.auditSink)
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return sinks
	}
}

// newCredential builds the stock hasher: new hashes use the configured
// algorithm, and both bcrypt and argon2id hashes verify.
func newCredential(cfg PasswordConfig) (*password.Multi, error) {
	bc, err := password.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password: %w", err)
	}

	argonCfg := password.Config{
		Memory:      cfg.Memory,
		Time:        cfg.Time,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	}
	ar, err := password.NewArgon2(argonCfg)
	if err != nil {
		if cfg.Algorithm == PasswordAlgorithmArgon2id {
			return nil, fmt.Errorf("password: %w", err)
		}
		// argon2id is verify-only here; stored hashes carry their own parameters.
		def := DefaultConfig().Password
		ar, err = password.NewArgon2(password.Config{
			Memory:      def.Memory,
			Time:        def.Time,
			Parallelism: def.Parallelism,
			SaltLength:  def.SaltLength,
			KeyLength:   def.KeyLength,
		})
		if err != nil {
			return nil, fmt.Errorf("password: %w", err)
		}
	}

	if cfg.Algorithm == PasswordAlgorithmArgon2id {
		return password.NewMulti(ar, bc, ar), nil
	}
	return password.NewMulti(bc, bc, ar), nil
}
