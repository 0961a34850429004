package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tracking-catalog/backend/internal/audit"
	audithandler "tracking-catalog/backend/internal/audit/handler"
	auditrepo "tracking-catalog/backend/internal/audit/repository"
	"tracking-catalog/backend/internal/config"
	"tracking-catalog/backend/internal/db"
	eventdomain "tracking-catalog/backend/internal/event/domain"
	eventhandler "tracking-catalog/backend/internal/event/handler"
	eventrepo "tracking-catalog/backend/internal/event/repository"
	eventservice "tracking-catalog/backend/internal/event/service"
	propertyhandler "tracking-catalog/backend/internal/property/handler"
	propertyrepo "tracking-catalog/backend/internal/property/repository"
	propertyservice "tracking-catalog/backend/internal/property/service"
	"tracking-catalog/backend/internal/server"
	"tracking-catalog/backend/internal/telemetry/otel"
	planhandler "tracking-catalog/backend/internal/trackingplan/handler"
	planrepo "tracking-catalog/backend/internal/trackingplan/repository"
	planservice "tracking-catalog/backend/internal/trackingplan/service"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.OTLPInsecure)
	if err != nil {
		logger.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("telemetry shutdown")
		}
	}()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db: %v", err)
	}
	defer pool.Close()

	auditRepo := auditrepo.NewPostgresRepository(pool)
	auditLog := audit.NewLogger(auditRepo, logger)

	props := propertyservice.NewService(propertyrepo.NewPostgresRepository(pool), auditLog)
	events := eventservice.NewService(
		eventrepo.NewPostgresRepository(pool),
		props,
		eventdomain.NewTypes(cfg.EventTypesList()),
		auditLog,
	)
	plans := planservice.NewService(planrepo.NewPostgresRepository(pool), events, auditLog)

	srv := server.New(logger, pool,
		propertyhandler.New(props, logger),
		eventhandler.New(events, logger),
		planhandler.New(plans, logger),
		audithandler.New(auditRepo, logger),
	)

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.Start(cfg.HTTPAddr); err != nil {
			logger.Infof("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
	logger.Info("HTTP server stopped")
}
