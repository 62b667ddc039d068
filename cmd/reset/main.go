package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/GameDevClicker_Go/internal/database"
)

// Wipes every profile's save data for the configured backend. The schema and
// balance tables survive; only player state is destroyed.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	backend := envOr("SAVE_BACKEND", "file")
	switch backend {
	case "postgres":
		resetPostgres()
	case "file":
		resetFiles(envOr("SAVE_DIR", "saves"))
	default:
		log.Fatalf("Unknown SAVE_BACKEND %q", backend)
	}

	log.Println("\n✅ Save data reset complete!")
}

func resetPostgres() {
	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_NAME", "gamedevclicker"),
	)

	pool, err := database.NewPool(connString, 10, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	log.Println("Truncating save_slots...")
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE save_slots"); err != nil {
		log.Fatalf("Failed to truncate save_slots: %v", err)
	}
	log.Println("All save slots removed.")
}

func resetFiles(saveDir string) {
	entries, err := os.ReadDir(saveDir)
	if os.IsNotExist(err) {
		log.Printf("Save directory %s does not exist; nothing to reset.\n", saveDir)
		return
	}
	if err != nil {
		log.Fatalf("Failed to read save directory %s: %v", saveDir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(saveDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Fatalf("Failed to remove %s: %v", path, err)
		}
		removed++
	}
	log.Printf("Removed %d save file(s) from %s.\n", removed, saveDir)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
