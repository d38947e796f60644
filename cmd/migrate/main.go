package main

import (
	"flag"
	"log"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, *dir); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	log.Println("All migrations applied successfully.")
}
