// Package handler exposes the audit trail over HTTP as a read-only surface.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/audit"
	"tracking-catalog/backend/internal/audit/domain"
	"tracking-catalog/backend/internal/httpapi"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Lister is the slice of the audit repository the handler needs.
type Lister interface {
	ListByEntity(ctx context.Context, entityKind, entityID string, limit, offset int32) ([]*domain.AuditLog, error)
}

// Handler serves the /audit_logs route.
type Handler struct {
	lister Lister
	log    *logrus.Logger
}

func New(lister Lister, log *logrus.Logger) *Handler {
	return &Handler{lister: lister, log: log}
}

// Register wires the audit routes onto the given group.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/audit_logs", h.list)
}

type auditLogResponse struct {
	ID         string    `json:"id"`
	EntityKind string    `json:"entityKind"`
	EntityID   string    `json:"entityId"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail,omitempty"`
	CreateTime time.Time `json:"create_time"`
}

func toResponse(e *domain.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:         e.ID,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Detail:     e.Detail,
		CreateTime: e.CreatedAt,
	}
}

func (h *Handler) list(c echo.Context) error {
	kind := c.QueryParam("entity_kind")
	switch kind {
	case audit.KindProperty, audit.KindEvent, audit.KindTrackingPlan:
	case "":
		return httpapi.Error(c, h.log, apperr.BadRequestf("entity_kind is required"))
	default:
		return httpapi.Error(c, h.log, apperr.BadRequestf("unrecognized entity_kind '%s'", kind))
	}

	entityID := c.QueryParam("entity_id")
	if _, err := uuid.Parse(entityID); err != nil {
		return httpapi.Error(c, h.log, apperr.BadRequestf("invalid entity_id '%s'", entityID))
	}

	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := h.lister.ListByEntity(c.Request().Context(), kind, entityID, limit, offset)
	if err != nil {
		return httpapi.Error(c, h.log, apperr.Internalw(err, "failed to list audit logs"))
	}
	out := make([]auditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResponse(e))
	}
	return httpapi.Data(c, http.StatusOK, out)
}

func queryInt(c echo.Context, name string, def int32) (int32, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, apperr.BadRequestf("invalid %s '%s'", name, raw)
	}
	return int32(n), nil
}
