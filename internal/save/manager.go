package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/validation"
)

// LoadResult is a loaded state plus where it came from. SavedAt is the
// envelope timestamp and drives offline catch-up; it is zero for fresh
// profiles.
type LoadResult struct {
	State      *domain.PlayerState
	SavedAt    time.Time
	Fresh      bool
	Migrated   bool
	FromBackup bool
}

// Service persists and restores player state. Save failures never corrupt
// the in-memory state: bookkeeping fields commit only after the write
// lands, and the previous primary slot is preserved as a backup first.
type Service interface {
	Save(ctx context.Context, profileID string, st *domain.PlayerState) error
	Load(ctx context.Context, profileID string) (*LoadResult, error)
	Reset(ctx context.Context, profileID string) error
	Shutdown(ctx context.Context) error
}

type manager struct {
	store     SlotStore
	validator validation.SchemaValidator
	publisher *event.ResilientPublisher
	now       func() time.Time // injectable for tests
}

// NewManager creates a save manager over a slot store.
func NewManager(store SlotStore, publisher *event.ResilientPublisher) Service {
	return &manager{
		store:     store,
		validator: validation.NewSchemaValidator(),
		publisher: publisher,
		now:       time.Now,
	}
}

// Save serializes the state into a versioned envelope and writes it to the
// primary slot, copying the previous primary to the backup slot first.
// Save-count and playtime accumulate here as part of the save. They are
// bumped on a snapshot and copied back only on success, so a failed write
// leaves the live state exactly as it was.
func (m *manager) Save(ctx context.Context, profileID string, st *domain.PlayerState) error {
	log := logger.FromContext(ctx)
	now := m.now()

	snap := st.Clone()
	snap.Stats.SaveCount++
	snap.Stats.PlaytimeSeconds += playtimeDelta(st, now)
	snap.LastSavedAt = now

	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgMarshalState, err)
	}
	data, err := json.Marshal(Envelope{
		Version: domain.SaveVersionCurrent,
		SavedAt: now,
		State:   stateJSON,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgMarshalState, err)
	}

	// Preserve the previous primary before overwriting it. A copy failure
	// is logged but does not block the save; losing the backup is better
	// than losing the save.
	existing, readErr := m.store.ReadSlot(ctx, profileID, domain.SaveSlotPrimary)
	switch {
	case readErr == nil:
		if err := m.store.WriteSlot(ctx, profileID, domain.SaveSlotBackup, existing); err != nil {
			log.Warn(LogMsgBackupCopyFailed, "profile_id", profileID, "error", err)
		}
	case !errors.Is(readErr, domain.ErrSaveNotFound):
		log.Warn(LogMsgBackupCopyFailed, "profile_id", profileID, "error", readErr)
	}

	if err := m.store.WriteSlot(ctx, profileID, domain.SaveSlotPrimary, data); err != nil {
		log.Error(LogMsgSaveFailed, "profile_id", profileID, "error", err)
		m.publish(ctx, event.NewGameSavedEvent(profileID, st.Stats.SaveCount, false))
		m.publish(ctx, event.NewNotificationEvent(profileID, "Save failed", NotificationSaveFailed, event.SeverityWarning))
		return err
	}

	st.Stats.SaveCount = snap.Stats.SaveCount
	st.Stats.PlaytimeSeconds = snap.Stats.PlaytimeSeconds
	st.LastSavedAt = snap.LastSavedAt

	m.publish(ctx, event.NewGameSavedEvent(profileID, st.Stats.SaveCount, true))
	log.Info(LogMsgSaved, "profile_id", profileID, "save_count", st.Stats.SaveCount)
	return nil
}

// Load reads the primary slot, falling back to the backup slot when the
// primary is corrupt, and to a fresh default state when nothing usable
// exists. Only a store error (not corruption, not absence) is returned as
// an error: handing out a fresh state during an outage would invite the
// next save to overwrite real data.
func (m *manager) Load(ctx context.Context, profileID string) (*LoadResult, error) {
	log := logger.FromContext(ctx)

	data, err := m.store.ReadSlot(ctx, profileID, domain.SaveSlotPrimary)
	if errors.Is(err, domain.ErrSaveNotFound) {
		log.Info(LogMsgFreshProfile, "profile_id", profileID)
		return m.fresh(), nil
	}
	if err != nil {
		return nil, err
	}

	result, decodeErr := m.decode(ctx, data)
	if decodeErr == nil {
		log.Info(LogMsgLoaded, "profile_id", profileID, "migrated", result.Migrated)
		return result, nil
	}
	log.Warn(LogMsgPrimarySlotBad, "profile_id", profileID, "error", decodeErr)

	backup, err := m.store.ReadSlot(ctx, profileID, domain.SaveSlotBackup)
	if errors.Is(err, domain.ErrSaveNotFound) {
		log.Warn(LogMsgBackupSlotBad, "profile_id", profileID, "error", err)
		m.publish(ctx, event.NewNotificationEvent(profileID, "Save unreadable", NotificationSaveLost, event.SeverityWarning))
		return m.fresh(), nil
	}
	if err != nil {
		return nil, err
	}

	result, backupErr := m.decode(ctx, backup)
	if backupErr != nil {
		log.Warn(LogMsgBackupSlotBad, "profile_id", profileID, "error", backupErr)
		m.publish(ctx, event.NewNotificationEvent(profileID, "Save unreadable", NotificationSaveLost, event.SeverityWarning))
		return m.fresh(), nil
	}

	result.FromBackup = true
	log.Info(LogMsgLoaded, "profile_id", profileID, "from_backup", true, "migrated", result.Migrated)
	m.publish(ctx, event.NewNotificationEvent(profileID, "Save restored", NotificationSaveRecovered, event.SeverityInfo))
	return result, nil
}

// Reset deletes both slots. The caller replaces the in-memory state with a
// fresh one; the next save recreates the primary slot.
func (m *manager) Reset(ctx context.Context, profileID string) error {
	if err := m.store.DeleteSlots(ctx, profileID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgSlotsDeleted, "profile_id", profileID)
	return nil
}

// Shutdown is part of the service contract. Saves run inline on the
// caller's goroutine; asynchronous flushing belongs to the worker pool,
// so there is nothing to wait for here.
func (m *manager) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info("Save service shutdown complete")
	return nil
}

// decode validates envelope bytes against the save schema, then runs the
// version-aware state decoder. Every failure here means "this slot is
// unusable", which the caller translates into backup fallback.
func (m *manager) decode(ctx context.Context, data []byte) (*LoadResult, error) {
	if err := m.validator.ValidateBytes(data, SaveSchemaPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSaveCorrupt, ErrMsgSchemaViolation, err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSaveCorrupt, ErrMsgEnvelopeDecode, err)
	}

	st, migrated, err := decodeState(&env, logger.FromContext(ctx))
	if err != nil {
		return nil, err
	}

	return &LoadResult{State: st, SavedAt: env.SavedAt, Migrated: migrated}, nil
}

func (m *manager) fresh() *LoadResult {
	return &LoadResult{State: domain.NewPlayerState(m.now()), Fresh: true}
}

// playtimeDelta is the wall-clock span covered by this save: since the
// previous save, or since first play for a profile that has never saved.
func playtimeDelta(st *domain.PlayerState, now time.Time) float64 {
	anchor := st.LastSavedAt
	if anchor.IsZero() {
		anchor = st.FirstPlayedAt
	}
	if anchor.IsZero() {
		return 0
	}
	if d := now.Sub(anchor).Seconds(); d > 0 {
		return d
	}
	return 0
}

func (m *manager) publish(ctx context.Context, evt event.Event) {
	if m.publisher == nil {
		return
	}
	m.publisher.PublishWithRetry(ctx, evt)
}
