// Command loginsrv-loadtest hammers the attempt limiter and session store
// with concurrent traffic and checks that no failed attempt is lost.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/userstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const loadPassword = "Password1"

func main() {
	var (
		users       = flag.Int("users", 64, "number of accounts to register")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "loadtest:", "key prefix")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goLogin.DefaultConfig()
	cfg.Store.KeyPrefix = *prefix
	// High enough that the hammer phase never locks anyone.
	cfg.Login.MaxLoginAttempts = *ops + 1
	cfg.Password.BcryptCost = bcrypt.MinCost
	cfg.Audit.Enabled = false
	cfg.Metrics.Enabled = true

	engine, err := goLogin.New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserStore(userstore.NewMemory()).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	names := make([]string, *users)
	for i := range names {
		names[i] = fmt.Sprintf("load_user_%d", i)
		if _, err := engine.Register(ctx, names[i], loadPassword, ""); err != nil {
			fmt.Fprintf(os.Stderr, "register %s: %v\n", names[i], err)
			os.Exit(1)
		}
		if err := engine.UnlockAccount(ctx, names[i]); err != nil {
			fmt.Fprintf(os.Stderr, "reset %s: %v\n", names[i], err)
			os.Exit(1)
		}
	}
	fmt.Printf("registered %d users\n", *users)

	failStats, perUser := runFailurePhase(ctx, engine, names, *ops, *concurrency)
	lost := 0
	for i, name := range names {
		got, err := engine.FailedAttempts(ctx, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read counter %s: %v\n", name, err)
			os.Exit(1)
		}
		if int64(got) != perUser[i].Load() {
			lost++
			fmt.Printf("counter mismatch for %s: stored=%d sent=%d\n", name, got, perUser[i].Load())
		}
	}

	tokens, err := seedSessions(ctx, engine, names, *concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed sessions: %v\n", err)
		os.Exit(1)
	}
	verifyStats := runVerifyPhase(ctx, engine, tokens, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("failed-login", failStats)
	printStats("verify", verifyStats)
	if lost > 0 {
		fmt.Printf("LOST UPDATES on %d of %d counters\n", lost, len(names))
		os.Exit(1)
	}
	fmt.Println("no lost updates")
}

func runFailurePhase(ctx context.Context, engine *goLogin.Engine, names []string, ops, concurrency int) (phaseStats, []atomic.Int64) {
	var (
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
		perUser   = make([]atomic.Int64, len(names))
		g         errgroup.Group
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		worker := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return nil
				}
				idx := r.Intn(len(names))
				t0 := time.Now()
				out, err := engine.Login(ctx, names[idx], "wrong-password")
				d := time.Since(t0)
				if err != nil || out.Kind != goLogin.OutcomeInvalidCredentials {
					atomic.AddInt64(&failures, 1)
				} else {
					perUser[idx].Add(1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		})
	}
	_ = g.Wait()
	return computeStats(time.Since(start), latencies, failures), perUser
}

func seedSessions(ctx context.Context, engine *goLogin.Engine, names []string, concurrency int) ([]string, error) {
	tokens := make([]string, len(names))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := engine.UnlockAccount(ctx, name); err != nil {
				return err
			}
			out, err := engine.Login(ctx, name, loadPassword)
			if err != nil {
				return err
			}
			if out.Kind != goLogin.OutcomeSuccess {
				return fmt.Errorf("login %s: %s", name, out.Message)
			}
			tokens[i] = out.Token
			return nil
		})
	}
	return tokens, g.Wait()
}

func runVerifyPhase(ctx context.Context, engine *goLogin.Engine, tokens []string, ops, concurrency int) phaseStats {
	var (
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
		g         errgroup.Group
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		worker := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return nil
				}
				t0 := time.Now()
				_, found, err := engine.VerifySession(ctx, tokens[r.Intn(len(tokens))])
				d := time.Since(t0)
				if err != nil || !found {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		})
	}
	_ = g.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
