// Package handler exposes tracking plans over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/catalog"
	"tracking-catalog/backend/internal/httpapi"
	"tracking-catalog/backend/internal/trackingplan/domain"
	"tracking-catalog/backend/internal/trackingplan/service"
)

// Service is the slice of the tracking plan service the handler needs.
type Service interface {
	Create(ctx context.Context, name, description string, events []catalog.EventSpec) (*domain.TrackingPlan, error)
	Get(ctx context.Context, id string) (*domain.TrackingPlan, error)
	List(ctx context.Context) ([]*domain.TrackingPlan, error)
	Update(ctx context.Context, id string, in service.UpdateInput) (*domain.TrackingPlan, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves the /tracking_plans routes.
type Handler struct {
	svc Service
	log *logrus.Logger
}

func New(svc Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register wires the tracking plan routes onto the given group.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/tracking_plans", h.create)
	g.GET("/tracking_plans", h.list)
	g.GET("/tracking_plans/:id", h.get)
	g.PUT("/tracking_plans/:id", h.update)
	g.DELETE("/tracking_plans/:id", h.delete)
}

type createRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Events      []catalog.EventSpec `json:"events"`
}

type updateRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Events      []catalog.EventSpec `json:"events"`
}

type planResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventIDs    []string  `json:"eventIds"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

func toResponse(p *domain.TrackingPlan) planResponse {
	ids := p.EventIDs
	if ids == nil {
		ids = []string{}
	}
	return planResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		EventIDs:    ids,
		CreateTime:  p.CreatedAt,
		UpdateTime:  p.UpdatedAt,
	}
}

func (h *Handler) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, apperr.BadRequestf("invalid request body"))
	}
	p, err := h.svc.Create(c.Request().Context(), req.Name, req.Description, req.Events)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.DataMessage(c, http.StatusCreated, toResponse(p), "Tracking plan created successfully")
}

func (h *Handler) list(c echo.Context) error {
	plans, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toResponse(p))
	}
	return httpapi.Data(c, http.StatusOK, out)
}

func (h *Handler) get(c echo.Context) error {
	id, err := httpapi.PathID(c)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.Data(c, http.StatusOK, toResponse(p))
}

func (h *Handler) update(c echo.Context) error {
	id, err := httpapi.PathID(c)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, apperr.BadRequestf("invalid request body"))
	}
	p, err := h.svc.Update(c.Request().Context(), id, service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Events:      req.Events,
	})
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.DataMessage(c, http.StatusOK, toResponse(p), "Tracking plan updated successfully")
}

func (h *Handler) delete(c echo.Context) error {
	id, err := httpapi.PathID(c)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.Message(c, http.StatusOK, "Tracking plan deleted successfully")
}
