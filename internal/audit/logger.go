// Package audit records catalog mutations as a best-effort trail. Failures to
// write an entry are logged and never affect the mutating operation.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/audit/domain"
	auditrepo "tracking-catalog/backend/internal/audit/repository"
)

// Entity kinds recorded in the trail.
const (
	KindProperty     = "property"
	KindEvent        = "event"
	KindTrackingPlan = "tracking_plan"
)

// Actions recorded in the trail.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Recorder writes a single audit entry. Record is best-effort: failures are
// logged and do not affect the caller.
type Recorder interface {
	Record(ctx context.Context, entityKind, entityID, action, detail string)
}

// Logger implements Recorder using the audit repository.
type Logger struct {
	repo auditrepo.Repository
	log  *logrus.Logger
}

// NewLogger returns a Recorder that persists to repo. repo may be nil; then
// Record is a no-op. log may be nil; then the standard logger is used.
func NewLogger(repo auditrepo.Repository, log *logrus.Logger) *Logger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{repo: repo, log: log}
}

// Record writes one audit log entry.
func (l *Logger) Record(ctx context.Context, entityKind, entityID, action, detail string) {
	if l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:         uuid.New().String(),
		EntityKind: entityKind,
		EntityID:   entityID,
		Action:     action,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.WithFields(logrus.Fields{
			"entity_kind": entityKind,
			"entity_id":   entityID,
			"action":      action,
		}).WithError(err).Warn("audit: failed to record entry")
	}
}
