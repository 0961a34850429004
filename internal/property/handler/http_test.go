package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/httpapi"
	"tracking-catalog/backend/internal/property/domain"
)

type mockService struct {
	prop     *domain.Property
	props    []*domain.Property
	err      error
	lastName string
	lastType string
	lastDesc string
}

func (m *mockService) Create(ctx context.Context, name, typ, description string) (*domain.Property, error) {
	m.lastName, m.lastType, m.lastDesc = name, typ, description
	return m.prop, m.err
}

func (m *mockService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return m.prop, m.err
}

func (m *mockService) List(ctx context.Context) ([]*domain.Property, error) {
	return m.props, m.err
}

func (m *mockService) UpdateDescription(ctx context.Context, id, description string) (*domain.Property, error) {
	m.lastDesc = description
	return m.prop, m.err
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.err
}

func newTestServer(svc Service) *echo.Echo {
	e := echo.New()
	New(svc, logrus.New()).Register(e.Group("/api/v1"))
	return e
}

func sampleProperty() *domain.Property {
	now := time.Now().UTC()
	return &domain.Property{
		ID:          "a3a5c1d4-2e0b-4b0e-8b64-52b6a8f6f0ab",
		Name:        "user_id",
		Type:        domain.TypeString,
		Description: "User ID",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreate_Success(t *testing.T) {
	svc := &mockService{prop: sampleProperty()}
	e := newTestServer(svc)

	body := `{"name":"user_id","type":"string","description":"User ID"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastName != "user_id" || svc.lastType != "string" {
		t.Errorf("service received name=%q type=%q", svc.lastName, svc.lastType)
	}
	var env httpapi.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	if data["type"] != "string" {
		t.Errorf("data.type = %v", data["type"])
	}
}

func TestCreate_Conflict(t *testing.T) {
	err := apperr.Conflictf("Property 'user_id' of type 'string' already exists with a different description")
	e := newTestServer(&mockService{err: err})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader(`{"name":"user_id","type":"string","description":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var env httpapi.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Success || env.Error == "" {
		t.Errorf("envelope = %+v, want failure with message", env)
	}
}

func TestGet_InvalidID(t *testing.T) {
	e := newTestServer(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties/42", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdate_DescriptionOnly(t *testing.T) {
	svc := &mockService{prop: sampleProperty()}
	e := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/properties/a3a5c1d4-2e0b-4b0e-8b64-52b6a8f6f0ab", strings.NewReader(`{"description":"new"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastDesc != "new" {
		t.Errorf("service received description = %q", svc.lastDesc)
	}
}

func TestDelete_NotFound(t *testing.T) {
	e := newTestServer(&mockService{err: apperr.NotFoundf("property not found")})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/properties/a3a5c1d4-2e0b-4b0e-8b64-52b6a8f6f0ab", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
