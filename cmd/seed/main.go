// seed inserts development sample catalog data for local testing.
// Idempotent: skips inserts if the sample plan (Onboarding Funnel) already exists.
package main

import (
	"context"
	"log"
	"os"

	"tracking-catalog/backend/internal/catalog"
	"tracking-catalog/backend/internal/config"
	"tracking-catalog/backend/internal/db"
	eventdomain "tracking-catalog/backend/internal/event/domain"
	eventrepo "tracking-catalog/backend/internal/event/repository"
	eventservice "tracking-catalog/backend/internal/event/service"
	propertyrepo "tracking-catalog/backend/internal/property/repository"
	propertyservice "tracking-catalog/backend/internal/property/service"
	planrepo "tracking-catalog/backend/internal/trackingplan/repository"
	planservice "tracking-catalog/backend/internal/trackingplan/service"
)

const seedPlanName = "Onboarding Funnel"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	plans := planrepo.NewPostgresRepository(pool)
	existing, err := plans.GetByName(ctx, seedPlanName)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%q exists). Skipping.", seedPlanName)
		os.Exit(0)
	}

	props := propertyservice.NewService(propertyrepo.NewPostgresRepository(pool), nil)
	events := eventservice.NewService(
		eventrepo.NewPostgresRepository(pool),
		props,
		eventdomain.NewTypes(cfg.EventTypesList()),
		nil,
	)
	planSvc := planservice.NewService(plans, events, nil)

	userID := catalog.PropertySpec{Name: "user_id", Type: "string", Description: "Unique user identifier", Required: true}
	plan, err := planSvc.Create(ctx, seedPlanName, "Events fired while a new user signs up and activates", []catalog.EventSpec{
		{
			Name: "Signed Up", Type: "track", Description: "User created an account",
			Properties: []catalog.PropertySpec{
				userID,
				{Name: "signup_method", Type: "string", Description: "How the account was created"},
				{Name: "marketing_opt_in", Type: "boolean", Description: "Whether the user accepted marketing emails"},
			},
		},
		{
			Name: "Onboarding Step Completed", Type: "track", Description: "User finished an onboarding step",
			Properties: []catalog.PropertySpec{
				userID,
				{Name: "step_number", Type: "number", Description: "One-based onboarding step index"},
			},
		},
		{
			Name: "Home", Type: "page", Description: "User viewed the home page",
			Properties: []catalog.PropertySpec{userID},
		},
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	log.Printf("Seeded tracking plan %q (%s) with %d events.", plan.Name, plan.ID, len(plan.EventIDs))
}
