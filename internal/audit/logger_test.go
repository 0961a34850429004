package audit

import (
	"context"
	"errors"
	"testing"

	"tracking-catalog/backend/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByEntity(ctx context.Context, entityKind, entityID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogger_Record(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil)

	logger.Record(context.Background(), KindEvent, "ev-1", ActionCreated, `{"name":"signup"}`)

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.EntityKind != KindEvent {
		t.Errorf("entity_kind = %q, want %q", entry.EntityKind, KindEvent)
	}
	if entry.EntityID != "ev-1" {
		t.Errorf("entity_id = %q, want %q", entry.EntityID, "ev-1")
	}
	if entry.Action != ActionCreated {
		t.Errorf("action = %q, want %q", entry.Action, ActionCreated)
	}
	if entry.ID == "" {
		t.Error("ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestLogger_RecordBestEffort(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	logger := NewLogger(repo, nil)

	// Must not panic or surface the error.
	logger.Record(context.Background(), KindProperty, "p-1", ActionDeleted, "")

	if len(repo.entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(repo.entries))
	}
}

func TestLogger_NilRepoIsNoop(t *testing.T) {
	logger := NewLogger(nil, nil)
	logger.Record(context.Background(), KindTrackingPlan, "tp-1", ActionUpdated, "")
}
