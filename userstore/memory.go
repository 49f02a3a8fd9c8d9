package userstore

import (
	"context"
	"sync"
	"time"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/google/uuid"
)

var (
	_ goLogin.UserStore = (*Memory)(nil)
	_ goLogin.AuditLog  = (*Memory)(nil)
)

// Memory is an in-process [goLogin.UserStore] and [goLogin.AuditLog]. It is
// meant for tests, examples and the development server.
type Memory struct {
	mu     sync.RWMutex
	byID   map[string]*goLogin.User
	byName map[string]string
	logs   []goLogin.AuditEvent
}

func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[string]*goLogin.User),
		byName: make(map[string]string),
	}
}

func (m *Memory) FindByUsername(_ context.Context, username string) (*goLogin.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	return copyUser(m.byID[id]), nil
}

func (m *Memory) FindByID(_ context.Context, id string) (*goLogin.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (m *Memory) Create(_ context.Context, in goLogin.CreateUserInput) (*goLogin.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[in.Username]; ok {
		return nil, goLogin.ErrUsernameTaken
	}
	now := time.Now().UTC()
	u := &goLogin.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Email:        in.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[u.ID] = u
	m.byName[u.Username] = u.ID
	return copyUser(u), nil
}

func (m *Memory) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return goLogin.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a user. It exists for tests that need a session to outlive
// its user.
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		delete(m.byName, u.Username)
		delete(m.byID, id)
	}
}

func (m *Memory) Record(_ context.Context, event goLogin.AuditEvent) error {
	m.mu.Lock()
	m.logs = append(m.logs, event)
	m.mu.Unlock()
	return nil
}

// Logs returns a copy of every recorded event in arrival order.
func (m *Memory) Logs() []goLogin.AuditEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]goLogin.AuditEvent(nil), m.logs...)
}

func copyUser(u *goLogin.User) *goLogin.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
