package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"fleet-allocation-service/internal/adapters/repositories"
	"fleet-allocation-service/internal/config"
	"fleet-allocation-service/internal/platform/db"
)

// dbtool initializes the schema and seeds the fleet roster, against either
// the local SQLite file or the shared Postgres database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	database, err := open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	log.Println("Initializing database schema...")
	if cfg.DatabaseURL != "" {
		err = repositories.InitPostgresSchema(database)
	} else {
		err = repositories.InitSchema(database)
	}
	if err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if _, err := os.Stat(cfg.SeedPath); err != nil {
		log.Printf("No roster seed at %q, skipping.", cfg.SeedPath)
		return
	}

	log.Println("Seeding roster...")
	if err := repositories.SeedRosterFromJSON(database, cfg.SeedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

func open(cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL != "" {
		return db.Open(cfg.DatabaseURL)
	}

	database, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", cfg.DBPath, err)
	}
	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", cfg.DBPath, err)
	}
	return database, nil
}
