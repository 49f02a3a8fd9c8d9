package goLogin

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recordingAuditLog struct {
	mu     sync.Mutex
	events []AuditEvent
	err    error
	panics bool
}

func (l *recordingAuditLog) Record(_ context.Context, event AuditEvent) error {
	if l.panics {
		panic("audit log exploded")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return l.err
}

func (l *recordingAuditLog) snapshot() []AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]AuditEvent(nil), l.events...)
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditEventsCarryRequestContext(t *testing.T) {
	log := &recordingAuditLog{}
	te, done := newTestEngine(t, testConfig(), func(b *Builder) { b.WithAuditLog(log) })
	defer done()

	ctx := WithUserAgent(WithClientIP(context.Background(), "203.0.113.7"), "curl/8")

	if _, err := te.Register(ctx, "alice", goodPassword, ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := te.Login(ctx, "alice", "wrong"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := te.Login(ctx, "alice", goodPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	te.Close()

	events := log.snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}

	want := []struct{ eventType, status, message string }{
		{auditEventAccountCreationSuccess, AuditStatusSuccess, "registered"},
		{auditEventLoginFailure, AuditStatusFailed, "wrong password, failure 1"},
		{auditEventLoginSuccess, AuditStatusSuccess, "login successful"},
	}
	seen := map[string]bool{}
	for i, ev := range events {
		if ev.EventType != want[i].eventType || ev.Status != want[i].status || ev.Message != want[i].message {
			t.Fatalf("event %d: got %s/%s/%q", i, ev.EventType, ev.Status, ev.Message)
		}
		if ev.IP != "203.0.113.7" || ev.UserAgent != "curl/8" {
			t.Fatalf("event %d missing request context: %+v", i, ev)
		}
		if ev.Username != "alice" || ev.UserID == "" {
			t.Fatalf("event %d missing identity: %+v", i, ev)
		}
		if ev.EventID == "" || seen[ev.EventID] {
			t.Fatalf("event %d has empty or repeated id %q", i, ev.EventID)
		}
		seen[ev.EventID] = true
		if ev.Success != (ev.Status == AuditStatusSuccess) {
			t.Fatalf("event %d: Success does not mirror Status", i)
		}
	}
}

func TestAuditUnknownUserHasNoUserID(t *testing.T) {
	log := &recordingAuditLog{}
	te, done := newTestEngine(t, testConfig(), func(b *Builder) { b.WithAuditLog(log) })
	defer done()

	te.mustLogin(t, "ghost", "x")
	te.Close()

	events := log.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].UserID != "" || events[0].Message != "user not found" {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestAuditLockedEvent(t *testing.T) {
	log := &recordingAuditLog{}
	te, done := newTestEngine(t, testConfig(), func(b *Builder) { b.WithAuditLog(log) })
	defer done()

	lockAlice(t, te)
	te.mustLogin(t, "alice", goodPassword)
	te.Close()

	events := log.snapshot()
	last := events[len(events)-1]
	if last.EventType != auditEventLoginLocked || last.Status != AuditStatusLocked {
		t.Fatalf("expected locked event, got %+v", last)
	}
}

func TestAuditLogFailuresDoNotChangeOutcomes(t *testing.T) {
	for _, log := range []*recordingAuditLog{{err: errBoom}, {panics: true}} {
		te, done := newTestEngine(t, testConfig(), func(b *Builder) { b.WithAuditLog(log) })

		te.mustRegister(t, "alice", goodPassword)
		for i, want := range []LoginOutcomeKind{OutcomeInvalidCredentials, OutcomeInvalidCredentials, OutcomeNewlyLocked, OutcomeLocked} {
			out := te.mustLogin(t, "alice", "wrong")
			if out.Kind != want {
				t.Fatalf("attempt %d: expected %v, got %v", i+1, want, out.Kind)
			}
		}
		_ = te.UnlockAccount(context.Background(), "alice")
		if out := te.mustLogin(t, "alice", goodPassword); out.Kind != OutcomeSuccess {
			t.Fatalf("expected success, got %v", out.Kind)
		}
		done()
	}
}

func TestAuditFullBufferDropsWithoutBlocking(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.BufferSize = 1
	sink := &gateSink{gate: make(chan struct{})}
	te, done := newTestEngine(t, cfg, func(b *Builder) { b.WithAuditSink(sink) })
	defer done()
	defer close(sink.gate)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_, _ = te.Login(context.Background(), "ghost", "x")
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("login blocked on a full audit buffer")
	}
	if te.AuditDropped() == 0 {
		t.Fatal("expected dropped audit events")
	}
}

func TestAuditJSONSinkAndLogFanOut(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	writer := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	})
	log := &recordingAuditLog{}

	te, done := newTestEngine(t, testConfig(), func(b *Builder) {
		b.WithAuditLog(log).WithAuditSink(NewJSONWriterSink(writer))
	})
	defer done()

	te.mustLogin(t, "ghost", "x")
	te.Close()

	mu.Lock()
	line := strings.TrimSpace(buf.String())
	mu.Unlock()
	if !strings.Contains(line, `"event_type":"login_failure"`) || !strings.Contains(line, `"status":"failed"`) {
		t.Fatalf("unexpected json line %q", line)
	}
	if len(log.snapshot()) != 1 {
		t.Fatal("audit log should receive the same event")
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false
	var calls atomic.Int64
	sink := sinkFunc(func(context.Context, AuditEvent) { calls.Add(1) })
	te, done := newTestEngine(t, cfg, func(b *Builder) { b.WithAuditSink(sink) })
	defer done()

	te.mustLogin(t, "ghost", "x")
	te.Close()
	if calls.Load() != 0 {
		t.Fatalf("disabled audit emitted %d events", calls.Load())
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

type sinkFunc func(context.Context, AuditEvent)

func (f sinkFunc) Emit(ctx context.Context, e AuditEvent) { f(ctx, e) }
