package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/kvstore"
	"gopkg.in/yaml.v3"
)

type serverConfig struct {
	HTTP struct {
		Addr         string   `yaml:"addr"`
		AllowOrigins []string `yaml:"allow_origins"`
		Debug        bool     `yaml:"debug"`
	} `yaml:"http"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Redis struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		KeyPrefix string `yaml:"key_prefix"`
		// Embedded runs an in-process miniredis instead of dialing Host.
		Embedded bool `yaml:"embedded"`
	} `yaml:"redis"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Login struct {
		MaxAttempts          int `yaml:"max_attempts"`
		LockSeconds          int `yaml:"lock_seconds"`
		FailureWindowSeconds int `yaml:"failure_window_seconds"`
	} `yaml:"login"`

	Session struct {
		ExpireSeconds int `yaml:"expire_seconds"`
	} `yaml:"session"`

	Password struct {
		Algorithm      string `yaml:"algorithm"`
		BcryptCost     int    `yaml:"bcrypt_cost"`
		UpgradeOnLogin bool   `yaml:"upgrade_on_login"`
	} `yaml:"password"`

	Audit struct {
		Enabled    bool `yaml:"enabled"`
		BufferSize int  `yaml:"buffer_size"`
		// StdoutJSON additionally writes every audit event as a JSON line.
		StdoutJSON bool `yaml:"stdout_json"`
	} `yaml:"audit"`

	Metrics struct {
		Enabled    bool `yaml:"enabled"`
		Histograms bool `yaml:"histograms"`
	} `yaml:"metrics"`
}

func defaultServerConfig() serverConfig {
	engine := goLogin.DefaultConfig()

	var cfg serverConfig
	cfg.HTTP.Addr = ":5000"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Redis.Host = "localhost"
	cfg.Redis.Port = 6379
	cfg.Redis.KeyPrefix = engine.Store.KeyPrefix
	cfg.Database.DSN = "gologin.db"
	cfg.Login.MaxAttempts = engine.Login.MaxLoginAttempts
	cfg.Login.LockSeconds = int(engine.Login.LockDuration / time.Second)
	cfg.Session.ExpireSeconds = int(engine.Session.Lifetime / time.Second)
	cfg.Password.Algorithm = engine.Password.Algorithm
	cfg.Password.BcryptCost = engine.Password.BcryptCost
	cfg.Password.UpgradeOnLogin = engine.Password.UpgradeOnLogin
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = engine.Audit.BufferSize
	cfg.Metrics.Enabled = true
	cfg.Metrics.Histograms = true
	return cfg
}

// loadServerConfig layers defaults, the YAML file at path and environment
// overrides, in that order. A missing file is only an error when required.
func loadServerConfig(path string, required bool, getenv func(string) string) (serverConfig, error) {
	cfg := defaultServerConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *serverConfig, getenv func(string) string) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"MAX_LOGIN_ATTEMPTS", &cfg.Login.MaxAttempts},
		{"LOCK_TIME_SECONDS", &cfg.Login.LockSeconds},
		{"FAILURE_WINDOW_SECONDS", &cfg.Login.FailureWindowSeconds},
		{"SESSION_EXPIRE_SECONDS", &cfg.Session.ExpireSeconds},
		{"REDIS_PORT", &cfg.Redis.Port},
		{"REDIS_DB", &cfg.Redis.DB},
	}
	for _, e := range ints {
		v := strings.TrimSpace(getenv(e.key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", e.key, v)
		}
		*e.dst = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"REDIS_HOST", &cfg.Redis.Host},
		{"REDIS_PASSWORD", &cfg.Redis.Password},
		{"REDIS_KEY_PREFIX", &cfg.Redis.KeyPrefix},
		{"DATABASE_DSN", &cfg.Database.DSN},
		{"HTTP_ADDR", &cfg.HTTP.Addr},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"PASSWORD_ALGORITHM", &cfg.Password.Algorithm},
	}
	for _, e := range strs {
		if v := getenv(e.key); v != "" {
			*e.dst = v
		}
	}

	if v := getenv("REDIS_EMBEDDED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REDIS_EMBEDDED: %q is not a boolean", v)
		}
		cfg.Redis.Embedded = b
	}
	if v := getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG: %q is not a boolean", v)
		}
		cfg.HTTP.Debug = b
	}
	return nil
}

func (c serverConfig) engineConfig() goLogin.Config {
	cfg := goLogin.DefaultConfig()
	cfg.Login.MaxLoginAttempts = c.Login.MaxAttempts
	cfg.Login.LockDuration = time.Duration(c.Login.LockSeconds) * time.Second
	cfg.Login.FailureWindow = time.Duration(c.Login.FailureWindowSeconds) * time.Second
	cfg.Session.Lifetime = time.Duration(c.Session.ExpireSeconds) * time.Second
	cfg.Store.KeyPrefix = c.Redis.KeyPrefix
	cfg.Password.Algorithm = c.Password.Algorithm
	cfg.Password.BcryptCost = c.Password.BcryptCost
	cfg.Password.UpgradeOnLogin = c.Password.UpgradeOnLogin
	cfg.Audit.Enabled = c.Audit.Enabled
	if c.Audit.BufferSize > 0 {
		cfg.Audit.BufferSize = c.Audit.BufferSize
	}
	cfg.Metrics.Enabled = c.Metrics.Enabled
	cfg.Metrics.EnableLatencyHistograms = c.Metrics.Histograms
	return cfg
}

func (c serverConfig) redisConfig() kvstore.RedisConfig {
	return kvstore.RedisConfig{
		Addr:     net.JoinHostPort(c.Redis.Host, strconv.Itoa(c.Redis.Port)),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

func (c serverConfig) logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
