package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"crewboard/frontend/login"
	"crewboard/infrastructure/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	dbPath := getenv("SQLITE_PATH", "crewboard.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	name := getenv("ADMIN_NAME", "Admin")
	email := getenv("ADMIN_EMAIL", "admin@crewboard.local")
	password := getenv("ADMIN_PASSWORD", "Admin123!Crewboard")
	if err := login.UpsertUser(context.Background(), db, name, email, "admin", password); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	fmt.Printf("seeded admin user (email=%s)\n", email)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
