package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/audit"
	"tracking-catalog/backend/internal/audit/domain"
	"tracking-catalog/backend/internal/httpapi"
)

type mockLister struct {
	entries    []*domain.AuditLog
	err        error
	lastKind   string
	lastID     string
	lastLimit  int32
	lastOffset int32
}

func (m *mockLister) ListByEntity(ctx context.Context, entityKind, entityID string, limit, offset int32) ([]*domain.AuditLog, error) {
	m.lastKind, m.lastID = entityKind, entityID
	m.lastLimit, m.lastOffset = limit, offset
	return m.entries, m.err
}

func newTestServer(lister Lister) *echo.Echo {
	e := echo.New()
	New(lister, logrus.New()).Register(e.Group("/api/v1"))
	return e
}

const entityID = "a3a5c1d4-2e0b-4b0e-8b64-52b6a8f6f0ab"

func TestList_Success(t *testing.T) {
	lister := &mockLister{entries: []*domain.AuditLog{{
		ID:         "6f2b8c1e-9d40-4a57-bd3f-0c7e1a2b3c4d",
		EntityKind: audit.KindProperty,
		EntityID:   entityID,
		Action:     audit.ActionUpdated,
		Detail:     "description changed",
		CreatedAt:  time.Now().UTC(),
	}}}
	e := newTestServer(lister)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit_logs?entity_kind=property&entity_id="+entityID, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if lister.lastKind != audit.KindProperty || lister.lastID != entityID {
		t.Errorf("lister received kind=%q id=%q", lister.lastKind, lister.lastID)
	}
	if lister.lastLimit != defaultLimit || lister.lastOffset != 0 {
		t.Errorf("lister received limit=%d offset=%d, want defaults", lister.lastLimit, lister.lastOffset)
	}
	var env httpapi.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	items, ok := env.Data.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("data = %v, want one entry", env.Data)
	}
	entry, ok := items[0].(map[string]any)
	if !ok {
		t.Fatalf("entry = %T, want object", items[0])
	}
	if entry["entityKind"] != "property" || entry["action"] != "updated" {
		t.Errorf("entry = %v", entry)
	}
}

func TestList_Pagination(t *testing.T) {
	lister := &mockLister{}
	e := newTestServer(lister)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit_logs?entity_kind=event&entity_id="+entityID+"&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if lister.lastLimit != 10 || lister.lastOffset != 20 {
		t.Errorf("lister received limit=%d offset=%d", lister.lastLimit, lister.lastOffset)
	}
}

func TestList_BadRequests(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{"missing entity_kind", "entity_id=" + entityID},
		{"unrecognized entity_kind", "entity_kind=widget&entity_id=" + entityID},
		{"missing entity_id", "entity_kind=property"},
		{"non-uuid entity_id", "entity_kind=property&entity_id=42"},
		{"non-numeric limit", "entity_kind=property&entity_id=" + entityID + "&limit=many"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lister := &mockLister{}
			e := newTestServer(lister)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/audit_logs?"+tc.query, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
			if lister.lastKind != "" {
				t.Error("lister should not be called on a bad request")
			}
		})
	}
}

func TestList_RepositoryError(t *testing.T) {
	e := newTestServer(&mockLister{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit_logs?entity_kind=tracking_plan&entity_id="+entityID, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var env httpapi.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Success || env.Error != "internal server error" {
		t.Errorf("envelope = %+v, want generic failure", env)
	}
}
