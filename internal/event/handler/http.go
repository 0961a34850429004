// Package handler exposes the event catalog over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/catalog"
	"tracking-catalog/backend/internal/event/domain"
	"tracking-catalog/backend/internal/event/service"
	"tracking-catalog/backend/internal/httpapi"
)

// Service is the slice of the event service the handler needs.
type Service interface {
	Create(ctx context.Context, name, typ, description string, properties []catalog.PropertySpec) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Update(ctx context.Context, id string, in service.UpdateInput) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves the /events routes.
type Handler struct {
	svc Service
	log *logrus.Logger
}

func New(svc Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register wires the event routes onto the given group.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/events", h.create)
	g.GET("/events", h.list)
	g.GET("/events/:id", h.get)
	g.PUT("/events/:id", h.update)
	g.DELETE("/events/:id", h.delete)
}

type createRequest struct {
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Properties  []catalog.PropertySpec `json:"properties"`
}

type updateRequest struct {
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Properties  []catalog.PropertySpec `json:"properties"`
}

type eventResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	PropertyIDs []string  `json:"propertyIds"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

func toResponse(e *domain.Event) eventResponse {
	ids := e.PropertyIDs
	if ids == nil {
		ids = []string{}
	}
	return eventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Type:        e.Type,
		Description: e.Description,
		PropertyIDs: ids,
		CreateTime:  e.CreatedAt,
		UpdateTime:  e.UpdatedAt,
	}
}

func (h *Handler) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, apperr.BadRequestf("invalid request body"))
	}
	e, err := h.svc.Create(c.Request().Context(), req.Name, req.Type, req.Description, req.Properties)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.DataMessage(c, http.StatusCreated, toResponse(e), "Event created successfully")
}

func (h *Handler) list(c echo.Context) error {
	events, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toResponse(e))
	}
	return httpapi.Data(c, http.StatusOK, out)
}

func (h *Handler) get(c echo.Context) error {
	id, err := httpapi.PathID(c)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.Data(c, http.StatusOK, toResponse(e))
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
	e, err := h.svc.Update(c.Request().Context(), id, service.UpdateInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Properties:  req.Properties,
	})
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.DataMessage(c, http.StatusOK, toResponse(e), "Event updated successfully")
}

func (h *Handler) delete(c echo.Context) error {
	id, err := httpapi.PathID(c)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.Message(c, http.StatusOK, "Event deleted successfully")
}
