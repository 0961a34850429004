package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RequestLogger logs one line per request with method, route, status and latency.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo render the error so the logged status is final.
				c.Error(err)
				err = nil
			}
			entry := log.WithFields(logrus.Fields{
				"method":  c.Request().Method,
				"path":    c.Path(),
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			})
			if c.Response().Status >= 500 {
				entry.Error("request")
			} else {
				entry.Debug("request")
			}
			return err
		}
	}
}

// RequestMetrics records a request counter and duration histogram per route.
func RequestMetrics() echo.MiddlewareFunc {
	meter := otel.Meter("tracking-catalog/server")
	counter, counterErr := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total HTTP requests"))
	duration, durationErr := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			attrs := metric.WithAttributes(
				attribute.String("http.method", c.Request().Method),
				attribute.String("http.route", c.Path()),
				attribute.String("http.status", strconv.Itoa(c.Response().Status)),
			)
			ctx := c.Request().Context()
			if counterErr == nil {
				counter.Add(ctx, 1, attrs)
			}
			if durationErr == nil {
				duration.Record(ctx, time.Since(start).Seconds(), attrs)
			}
			return err
		}
	}
}
