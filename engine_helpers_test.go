package goLogin

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type testUserStore struct {
	mu     sync.Mutex
	byName map[string]*User
	byID   map[string]*User
	seq    int

	findErr   error
	createErr error
	updateErr error
	finds     int
}

func newTestUserStore() *testUserStore {
	return &testUserStore{
		byName: make(map[string]*User),
		byID:   make(map[string]*User),
	}
}

func (s *testUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.byName[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *testUserStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *testUserStore) Create(_ context.Context, in CreateUserInput) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, ok := s.byName[in.Username]; ok {
		return nil, ErrUsernameTaken
	}
	s.seq++
	now := time.Now().UTC()
	u := &User{
		ID:           "u" + strconv.Itoa(s.seq),
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Email:        in.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byName[u.Username] = u
	s.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *testUserStore) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	u, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *testUserStore) hashOf(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byName[username]; ok {
		return u.PasswordHash
	}
	return ""
}

func (s *testUserStore) remove(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byName[username]; ok {
		delete(s.byID, u.ID)
		delete(s.byName, username)
	}
}

func (s *testUserStore) findCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finds
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// testConfig keeps bcrypt cheap and the threshold small.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Login.MaxLoginAttempts = 3
	cfg.Login.LockDuration = 60 * time.Second
	cfg.Password.BcryptCost = bcrypt.MinCost
	cfg.Metrics.Enabled = true
	return cfg
}

type testEngine struct {
	*Engine
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	users *testUserStore
}

func newTestEngine(t *testing.T, cfg Config, configure ...func(*Builder)) (*testEngine, func()) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	users := newTestUserStore()

	b := New().WithConfig(cfg).WithRedis(rdb).WithUserStore(users)
	for _, fn := range configure {
		fn(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	te := &testEngine{Engine: engine, mr: mr, rdb: rdb, users: users}
	return te, func() {
		engine.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

func (te *testEngine) mustRegister(t *testing.T, username, password string) *RegisterResult {
	t.Helper()
	res, err := te.Register(context.Background(), username, password, "")
	if err != nil {
		t.Fatalf("Register(%q): %v", username, err)
	}
	return res
}

func (te *testEngine) mustLogin(t *testing.T, username, password string) *LoginOutcome {
	t.Helper()
	out, err := te.Login(context.Background(), username, password)
	if err != nil {
		t.Fatalf("Login(%q): %v", username, err)
	}
	if out == nil {
		t.Fatal("Login returned nil outcome without error")
	}
	return out
}

var errBoom = errors.New("boom")
