package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/GameDevClicker_Go/internal/database"
	"github.com/osse101/GameDevClicker_Go/internal/database/postgres"
	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/save"
)

// Dumps save slots for inspection. With no arguments every profile on the
// configured backend is listed; with a profile id only that one is shown.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default/environment variables")
	}

	store, err := openStore()
	if err != nil {
		log.Fatalf("Failed to open save store: %v", err)
	}

	ctx := context.Background()

	var profiles []string
	if len(os.Args) > 1 {
		profiles = os.Args[1:]
	} else {
		profiles, err = store.ListProfiles(ctx)
		if err != nil {
			log.Fatalf("Failed to list profiles: %v", err)
		}
		if len(profiles) == 0 {
			fmt.Println("No saved profiles found.")
			return
		}
	}

	for _, profile := range profiles {
		fmt.Printf("--- Profile %s ---\n", profile)
		for _, slot := range []string{domain.SaveSlotPrimary, domain.SaveSlotBackup} {
			dumpSlot(ctx, store, profile, slot)
		}
		fmt.Println()
	}
}

func openStore() (save.SlotStore, error) {
	backend := envOr("SAVE_BACKEND", "file")
	switch backend {
	case "postgres":
		connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_NAME", "gamedevclicker"),
		)
		pool, err := database.NewPool(connString, 2, 30*time.Minute, time.Hour)
		if err != nil {
			return nil, err
		}
		return postgres.NewSaveRepository(pool), nil
	case "file":
		return save.NewFileStore(envOr("SAVE_DIR", "saves"))
	default:
		return nil, fmt.Errorf("unknown SAVE_BACKEND %q", backend)
	}
}

func dumpSlot(ctx context.Context, store save.SlotStore, profile, slot string) {
	data, err := store.ReadSlot(ctx, profile, slot)
	if errors.Is(err, domain.ErrSaveNotFound) {
		fmt.Printf("%s: (empty)\n", slot)
		return
	}
	if err != nil {
		log.Printf("%s: read failed: %v", slot, err)
		return
	}

	var env save.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("%s: corrupt envelope (%d bytes): %v", slot, len(data), err)
		return
	}

	fmt.Printf("%s: version %d, saved %s (%d bytes)\n",
		slot, env.Version, env.SavedAt.Format(time.RFC3339), len(data))

	if env.Version != domain.SaveVersionCurrent {
		fmt.Printf("  needs migration: v%d -> v%d on next load\n", env.Version, domain.SaveVersionCurrent)
		return
	}

	var st domain.PlayerState
	if err := json.Unmarshal(env.State, &st); err != nil {
		log.Printf("  state decode failed: %v", err)
		return
	}
	fmt.Printf("  level %d, stage %d, %.2f money, %.2f exp\n", st.Level, st.Stage, st.Money, st.Experience)
	fmt.Printf("  %d upgrade(s), %d milestone(s), %d click(s), last played %s\n",
		len(st.UpgradeLevels), len(st.UnlockedMilestones), st.Stats.TotalClicks,
		st.LastPlayedAt.Format(time.RFC3339))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
