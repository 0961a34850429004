// Package handler exposes the property catalog over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/httpapi"
	"tracking-catalog/backend/internal/property/domain"
)

// Service is the slice of the property service the handler needs.
type Service interface {
	Create(ctx context.Context, name, typ, description string) (*domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context) ([]*domain.Property, error)
	UpdateDescription(ctx context.Context, id, description string) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves the /properties routes.
type Handler struct {
	svc Service
	log *logrus.Logger
}

func New(svc Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register wires the property routes onto the given group.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/properties", h.create)
	g.GET("/properties", h.list)
	g.GET("/properties/:id", h.get)
	g.PUT("/properties/:id", h.update)
	g.DELETE("/properties/:id", h.delete)
}

type createRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type updateRequest struct {
	Description string `json:"description"`
}

type propertyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

func toResponse(p *domain.Property) propertyResponse {
	return propertyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Type:        string(p.Type),
		Description: p.Description,
		CreateTime:  p.CreatedAt,
		UpdateTime:  p.UpdatedAt,
	}
}

func (h *Handler) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Error(c, h.log, apperr.BadRequestf("invalid request body"))
	}
	p, err := h.svc.Create(c.Request().Context(), req.Name, req.Type, req.Description)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.DataMessage(c, http.StatusCreated, toResponse(p), "Property created successfully")
}

func (h *Handler) list(c echo.Context) error {
	props, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	out := make([]propertyResponse, 0, len(props))
	for _, p := range props {
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
	p, err := h.svc.UpdateDescription(c.Request().Context(), id, req.Description)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.DataMessage(c, http.StatusOK, toResponse(p), "Property updated successfully")
}

func (h *Handler) delete(c echo.Context) error {
	id, err := httpapi.PathID(c)
	if err != nil {
		return httpapi.Error(c, h.log, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpapi.Error(c, h.log, err)
	}
	return httpapi.Message(c, http.StatusOK, "Property deleted successfully")
}
