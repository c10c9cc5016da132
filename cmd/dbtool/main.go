package main

import (
	"context"
	"database/sql"
	"forklift-route-agent/internal/adapters/repositories"
	"forklift-route-agent/internal/app"
	"forklift-route-agent/internal/config"
	"forklift-route-agent/internal/platform/db"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}
	driver := app.DriverName(config.Get("DB_DRIVER", db.DriverPostgres))

	conn, err := db.Open(driver, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/transport_order_data.csv")
	initAndSeed(context.Background(), conn, driver, seedPath)
}

func initAndSeed(ctx context.Context, conn *sql.DB, driver, seedPath string) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	n, err := repositories.SeedFromFile(ctx, conn, driver, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. orders=%d", n)
}
