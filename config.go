package goLogin

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds every tunable of the engine. Obtain one from [DefaultConfig],
// adjust it, and pass it to [Builder.WithConfig].
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Login    LoginConfig
	Session  SessionConfig
	Store    StoreConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig controls the failed-attempt counter and lockout.
type LoginConfig struct {
	// MaxLoginAttempts is the number of consecutive failures that locks an
	// account. The failure that reaches it is the one that locks.
	MaxLoginAttempts int
	LockDuration     time.Duration
	// FailureWindow is the TTL of the failure counter, re-armed on every
	// failure. 0 means LockDuration.
	FailureWindow time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls opaque session tokens.
type SessionConfig struct {
	// Lifetime is the TTL of a new session and the value a refresh resets it to.
	Lifetime time.Duration
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig controls the expiring key-value store.
type StoreConfig struct {
	// KeyPrefix namespaces every key the engine writes.
	KeyPrefix string
	// OperationTimeout bounds each Redis call. 0 leaves calls bounded only by
	// the caller's context.
	OperationTimeout time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the algorithm for new hashes and its cost. Existing
// hashes of either algorithm always verify; with UpgradeOnLogin they are
// rewritten with the current settings after the next successful login.
type PasswordConfig struct {
	Algorithm      string // "bcrypt" (default) or "argon2id"
	BcryptCost     int
	UpgradeOnLogin bool

	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

const (
	PasswordAlgorithmBcrypt   = "bcrypt"
	PasswordAlgorithmArgon2id = "argon2id"
)

// DefaultConfig returns the stock configuration: 5 attempts, 15 minute
// lockout, 24 hour sessions, bcrypt cost 12.
func DefaultConfig() Config {
	return Config{
		Login: LoginConfig{
			MaxLoginAttempts: 5,
			LockDuration:     900 * time.Second,
		},
		Session: SessionConfig{
			Lifetime: 86400 * time.Second,
		},
		Store: StoreConfig{
			KeyPrefix:        "user_login:",
			OperationTimeout: 2 * time.Second,
		},
		Password: PasswordConfig{
			Algorithm:      PasswordAlgorithmBcrypt,
			BcryptCost:     12,
			UpgradeOnLogin: true,
			Memory:         64 * 1024,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

// Validate reports the first invalid field, or nil.
func (c *Config) Validate() error {
	// Login
	if c.Login.MaxLoginAttempts < 1 {
		return errors.New("Login MaxLoginAttempts must be >= 1")
	}
	if c.Login.LockDuration < time.Second {
		return errors.New("Login LockDuration must be >= 1s")
	}
	if c.Login.FailureWindow < 0 {
		return errors.New("Login FailureWindow must be >= 0")
	}
	if c.Login.FailureWindow > 0 && c.Login.FailureWindow < time.Second {
		return errors.New("Login FailureWindow must be 0 or >= 1s")
	}

	// Session
	if c.Session.Lifetime < time.Second {
		return errors.New("Session Lifetime must be >= 1s")
	}

	// Store
	if c.Store.OperationTimeout < 0 {
		return errors.New("Store OperationTimeout must be >= 0")
	}

	// Password
	switch c.Password.Algorithm {
	case PasswordAlgorithmBcrypt:
		if c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > bcrypt.MaxCost {
			return errors.New("Password BcryptCost out of range")
		}
	case PasswordAlgorithmArgon2id:
		if c.Password.Memory == 0 || c.Password.Time == 0 || c.Password.Parallelism == 0 {
			return errors.New("Password argon2id parameters must be > 0")
		}
		if c.Password.SaltLength == 0 || c.Password.KeyLength == 0 {
			return errors.New("Password SaltLength and KeyLength must be > 0")
		}
	default:
		return errors.New("unsupported Password Algorithm")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when enabled")
		}
		// A full buffer must never stall a login.
		if !c.Audit.DropIfFull {
			return errors.New("Audit DropIfFull must be true when enabled")
		}
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
