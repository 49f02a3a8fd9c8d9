package goLogin

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventLoginSuccess             = "login_success"
	auditEventLoginFailure             = "login_failure"
	auditEventLoginLocked              = "login_locked"
	auditEventAccountCreationSuccess   = "account_creation_success"
	auditEventAccountCreationFailure   = "account_creation_failure"
	auditEventAccountCreationDuplicate = "account_creation_duplicate"
	auditEventAccountUnlocked          = "account_unlocked"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	status string,
	userID string,
	username string,
	message string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventID:   uuid.NewString(),
		EventType: eventType,
		Status:    status,
		Success:   status == AuditStatusSuccess,
		UserID:    userID,
		Username:  username,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Message:   message,
	}

	e.audit.Emit(ctx, event)
}

// auditLogSink adapts an AuditLog to the dispatcher. A failing or panicking
// log is reported once per event and otherwise ignored.
type auditLogSink struct {
	log    AuditLog
	logger *slog.Logger
}

func (s *auditLogSink) Emit(ctx context.Context, event AuditEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("goLogin: audit log panicked",
				"event_type", event.EventType,
				"event_id", event.EventID,
				"panic", r,
			)
		}
	}()

	if err := s.log.Record(ctx, event); err != nil {
		s.logger.Warn("goLogin: audit log record failed",
			"event_type", event.EventType,
			"event_id", event.EventID,
			"error", err,
		)
	}
}
