// Package server wires the HTTP API: echo instance, middleware, health route.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Handler registers a group of routes on the API group.
type Handler interface {
	Register(g *echo.Group)
}

// Pinger reports storage reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP front of the catalog.
type Server struct {
	e   *echo.Echo
	log *logrus.Logger
}

// New builds the echo instance with request logging, request metrics, the
// health route, and all entity routes under /api/v1.
func New(log *logrus.Logger, db Pinger, handlers ...Handler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestLogger(log))
	e.Use(RequestMetrics())

	e.GET("/healthz", healthz(db))

	g := e.Group("/api/v1")
	for _, h := range handlers {
		h.Register(g)
	}

	return &Server{e: e, log: log}
}

// Echo exposes the underlying instance for tests.
func (s *Server) Echo() *echo.Echo { return s.e }

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func healthz(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			if err := db.Ping(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
