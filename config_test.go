package goLogin

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Login.MaxLoginAttempts != 5 || cfg.Login.LockDuration != 15*time.Minute {
		t.Fatalf("unexpected login defaults: %+v", cfg.Login)
	}
	if cfg.Session.Lifetime != 24*time.Hour {
		t.Fatalf("unexpected session lifetime %v", cfg.Session.Lifetime)
	}
	if cfg.Store.KeyPrefix != "user_login:" {
		t.Fatalf("unexpected prefix %q", cfg.Store.KeyPrefix)
	}
	if cfg.Password.Algorithm != PasswordAlgorithmBcrypt || cfg.Password.BcryptCost != 12 {
		t.Fatalf("unexpected password defaults: %+v", cfg.Password)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero attempts", func(c *Config) { c.Login.MaxLoginAttempts = 0 }, "MaxLoginAttempts"},
		{"sub-second lock", func(c *Config) { c.Login.LockDuration = 500 * time.Millisecond }, "LockDuration"},
		{"negative window", func(c *Config) { c.Login.FailureWindow = -time.Second }, "FailureWindow"},
		{"sub-second window", func(c *Config) { c.Login.FailureWindow = time.Millisecond }, "FailureWindow"},
		{"zero lifetime", func(c *Config) { c.Session.Lifetime = 0 }, "Lifetime"},
		{"negative timeout", func(c *Config) { c.Store.OperationTimeout = -1 }, "OperationTimeout"},
		{"unknown algorithm", func(c *Config) { c.Password.Algorithm = "md5" }, "Algorithm"},
		{"bcrypt cost", func(c *Config) { c.Password.BcryptCost = 99 }, "BcryptCost"},
		{"argon2 params", func(c *Config) {
			c.Password.Algorithm = PasswordAlgorithmArgon2id
			c.Password.Time = 0
		}, "argon2id"},
		{"audit buffer", func(c *Config) { c.Audit.BufferSize = 0 }, "BufferSize"},
		{"audit blocking", func(c *Config) { c.Audit.DropIfFull = false }, "DropIfFull"},
		{"histograms without metrics", func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.EnableLatencyHistograms = true
		}, "EnableLatencyHistograms"},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestConfigAuditDisabledSkipsAuditChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.Audit.BufferSize = 0
	cfg.Audit.DropIfFull = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled audit should not be validated: %v", err)
	}
}
