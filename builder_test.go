package goLogin

import (
	"context"
	"strings"
	"testing"

	"github.com/MrEthical07/goLogin/kvstore"
)

func TestBuildRequiresStore(t *testing.T) {
	_, err := New().WithConfig(testConfig()).WithUserStore(newTestUserStore()).Build()
	if err == nil || !strings.Contains(err.Error(), "store required") {
		t.Fatalf("expected missing store error, got %v", err)
	}
}

func TestBuildRequiresUserStore(t *testing.T) {
	_, err := New().WithConfig(testConfig()).WithStore(kvstore.NewMemory()).Build()
	if err == nil || !strings.Contains(err.Error(), "user store required") {
		t.Fatalf("expected missing user store error, got %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Login.MaxLoginAttempts = 0
	_, err := New().WithConfig(cfg).WithStore(kvstore.NewMemory()).WithUserStore(newTestUserStore()).Build()
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig()).WithStore(kvstore.NewMemory()).WithUserStore(newTestUserStore())
	e, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer e.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("second build should fail")
	}
}

func TestBuildWithMemoryStore(t *testing.T) {
	kv := kvstore.NewMemory()
	e, err := New().
		WithConfig(testConfig()).
		WithStore(kv).
		WithUserStore(newTestUserStore()).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer e.Close()
	ctx := context.Background()

	if _, err := e.Register(ctx, "alice", goodPassword, ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	out, err := e.Login(ctx, "alice", goodPassword)
	if err != nil || out.Kind != OutcomeSuccess {
		t.Fatalf("login out=%+v err=%v", out, err)
	}
	if _, found, _ := e.VerifySession(ctx, out.Token); !found {
		t.Fatal("session should verify against the memory store")
	}
	// Memory has no health check.
	if _, err := e.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestBuildCustomCredential(t *testing.T) {
	e, err := New().
		WithConfig(testConfig()).
		WithStore(kvstore.NewMemory()).
		WithUserStore(newTestUserStore()).
		WithCredential(plainCredential{}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer e.Close()

	res, err := e.Register(context.Background(), "alice", goodPassword, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, _ := e.GetUser(context.Background(), res.UserID)
	if user.PasswordHash != "plain:"+goodPassword {
		t.Fatalf("custom credential not used: %q", user.PasswordHash)
	}
}

func TestNilEngineNotReady(t *testing.T) {
	var e *Engine
	if _, err := e.Login(context.Background(), "a", "b"); err != ErrEngineNotReady {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, _, err := e.VerifySession(context.Background(), "t"); err != ErrEngineNotReady {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	e.Close()
}

func TestZeroValueEngineNotReady(t *testing.T) {
	var e Engine
	ctx := context.Background()

	out, err := e.Login(ctx, "a", "b")
	if out != nil || err != ErrEngineNotReady {
		t.Fatalf("expected (nil, ErrEngineNotReady), got (%+v, %v)", out, err)
	}
	if _, _, err := e.VerifySession(ctx, "t"); err != ErrEngineNotReady {
		t.Fatalf("VerifySession: expected ErrEngineNotReady, got %v", err)
	}
	if _, err := e.Logout(ctx, "t"); err != ErrEngineNotReady {
		t.Fatalf("Logout: expected ErrEngineNotReady, got %v", err)
	}
	if _, _, err := e.RefreshSession(ctx, "t"); err != ErrEngineNotReady {
		t.Fatalf("RefreshSession: expected ErrEngineNotReady, got %v", err)
	}
	if _, err := e.Register(ctx, "alice", goodPassword, ""); err != ErrEngineNotReady {
		t.Fatalf("Register: expected ErrEngineNotReady, got %v", err)
	}
	if err := e.UnlockAccount(ctx, "alice"); err != ErrEngineNotReady {
		t.Fatalf("UnlockAccount: expected ErrEngineNotReady, got %v", err)
	}
	e.Close()
}

type plainCredential struct{}

func (plainCredential) Hash(p string) (string, error) { return "plain:" + p, nil }

func (plainCredential) Verify(p, h string) (bool, error) { return h == "plain:"+p, nil }
