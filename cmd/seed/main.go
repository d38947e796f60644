package main

import (
	"context"
	"log"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	created, err := database.SeedDemoAccounts(context.Background(), service.NewAuthService(db, cfg.JWTSecret))
	if err != nil {
		log.Fatalf("Failed to seed demo accounts: %v", err)
	}

	log.Printf("Created %d demo accounts", created)
	for _, req := range database.DemoAccounts() {
		log.Printf("  %s (%s) password: %s", req.Email, req.UserType, database.DemoPassword)
	}
}
