package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/save"
)

type saveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a PostgreSQL-backed save slot store.
func NewSaveRepository(db *pgxpool.Pool) save.SlotStore {
	return &saveRepository{db: db}
}

// ReadSlot returns the stored envelope bytes for one profile slot.
func (r *saveRepository) ReadSlot(ctx context.Context, profileID, slot string) ([]byte, error) {
	query := `
		SELECT payload
		FROM save_slots
		WHERE profile_id = $1 AND slot = $2
	`

	var payload []byte
	err := r.db.QueryRow(ctx, query, profileID, slot).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrSaveNotFound, profileID, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save slot: %w", err)
	}
	return payload, nil
}

// WriteSlot upserts the envelope bytes for one profile slot. The envelope
// version is lifted into its own column so operational queries can find
// stragglers on old schema versions without unpacking JSON.
func (r *saveRepository) WriteSlot(ctx context.Context, profileID, slot string, data []byte) error {
	query := `
		INSERT INTO save_slots (profile_id, slot, version, payload, saved_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (profile_id, slot)
		DO UPDATE SET version = EXCLUDED.version, payload = EXCLUDED.payload, saved_at = NOW()
	`

	var env struct {
		Version int `json:"version"`
	}
	// Best effort; an unparseable envelope still gets stored and the
	// version column just records zero.
	_ = json.Unmarshal(data, &env)

	_, err := r.db.Exec(ctx, query, profileID, slot, env.Version, data)
	if err != nil {
		return fmt.Errorf("failed to write save slot: %w", err)
	}
	return nil
}

// DeleteSlots removes every slot a profile has.
func (r *saveRepository) DeleteSlots(ctx context.Context, profileID string) error {
	query := `DELETE FROM save_slots WHERE profile_id = $1`

	if _, err := r.db.Exec(ctx, query, profileID); err != nil {
		return fmt.Errorf("failed to delete save slots: %w", err)
	}
	return nil
}

// ListProfiles returns every profile id with a primary slot.
func (r *saveRepository) ListProfiles(ctx context.Context) ([]string, error) {
	query := `
		SELECT profile_id
		FROM save_slots
		WHERE slot = $1
		ORDER BY profile_id
	`

	rows, err := r.db.Query(ctx, query, domain.SaveSlotPrimary)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		profiles = append(profiles, id)
	}
	return profiles, rows.Err()
}
