// Command loginsrv serves the goLogin HTTP API.
//
// Configuration is read from a YAML file (-config, default loginsrv.yaml), then
// from .env, then from the process environment. With redis.embedded set (or
// REDIS_EMBEDDED=true) it runs against an in-process miniredis, which is handy
// for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/httpapi"
	"github.com/MrEthical07/goLogin/kvstore"
	"github.com/MrEthical07/goLogin/metrics/export/prometheus"
	"github.com/MrEthical07/goLogin/userstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		configPath = flag.String("config", "loginsrv.yaml", "path to YAML config")
		envFile    = flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *envFile, err)
		os.Exit(2)
	}

	required := isFlagSet("config")
	cfg, err := loadServerConfig(*configPath, required, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("loginsrv stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg serverConfig, logger *slog.Logger) error {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, closeRedis, err := openRedis(rootCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	users, err := userstore.Open(rootCtx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = users.Close() }()

	builder := goLogin.New().
		WithConfig(cfg.engineConfig()).
		WithRedis(rdb).
		WithUserStore(users).
		WithAuditLog(users).
		WithLogger(logger)
	if cfg.Audit.StdoutJSON {
		builder = builder.WithAuditSink(goLogin.NewJSONWriterSink(os.Stdout))
	}
	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	router, err := httpapi.New(httpapi.Options{
		Engine:       engine,
		Logger:       logger,
		Metrics:      prometheus.NewPrometheusExporter(engine).Handler(),
		AllowOrigins: cfg.HTTP.AllowOrigins,
		Debug:        cfg.HTTP.Debug,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		logger.Info("http server stopped")
		return nil
	})

	return group.Wait()
}

func openRedis(ctx context.Context, cfg serverConfig, logger *slog.Logger) (redis.UniversalClient, func(), error) {
	if cfg.Redis.Embedded {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start embedded redis: %w", err)
		}
		logger.Warn("using embedded redis; state is lost on exit", "addr", mr.Addr())
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	rcfg := cfg.redisConfig()
	client, err := kvstore.Dial(ctx, rcfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to redis", "addr", rcfg.Addr, "db", rcfg.DB)
	return client, func() { _ = client.Close() }, nil
}

func newLogger(cfg serverConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.logLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
