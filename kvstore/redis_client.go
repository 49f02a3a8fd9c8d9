package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig captures connection options for [Dial].
type RedisConfig struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// Dial builds a client with bounded network timeouts and pings it once.
func Dial(ctx context.Context, cfg RedisConfig) (redis.UniversalClient, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = 2 * time.Second
	}
	read := cfg.ReadTimeout
	if read <= 0 {
		read = time.Second
	}
	write := cfg.WriteTimeout
	if write <= 0 {
		write = time.Second
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{cfg.Addr},
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dial,
		ReadTimeout:  read,
		WriteTimeout: write,
		PoolSize:     cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
