// Package httpapi carries the response envelope and error mapping shared by
// the HTTP handlers.
package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/apperr"
)

// Envelope is the response shape for every API route.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Data writes a successful response carrying a payload.
func Data(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// DataMessage writes a successful response carrying a payload and a human note.
func DataMessage(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// Message writes a successful response with no payload.
func Message(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: true, Message: message})
}

// Error maps err onto a status via the error taxonomy and writes the failure
// envelope. Internal errors are logged with their cause and surfaced with a
// generic message so storage details never leak to clients.
func Error(c echo.Context, logger *logrus.Logger, err error) error {
	status := apperr.HTTPStatus(err)
	msg := apperr.Message(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("request failed")
		}
		msg = "internal server error"
	}
	return c.JSON(status, Envelope{Success: false, Error: msg})
}

// PathID returns the :id path parameter, rejecting values that are not UUIDs
// before they reach storage.
func PathID(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperr.BadRequestf("invalid id '%s'", id)
	}
	return id, nil
}
