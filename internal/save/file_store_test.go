package save

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.ReadSlot(ctx, "player1", domain.SaveSlotPrimary)
	require.ErrorIs(t, err, domain.ErrSaveNotFound)

	payload := []byte(`{"version":2,"saved_at":"2026-01-10T12:00:00Z","state":{}}`)
	require.NoError(t, store.WriteSlot(ctx, "player1", domain.SaveSlotPrimary, payload))

	got, err := store.ReadSlot(ctx, "player1", domain.SaveSlotPrimary)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	first := []byte(`{"version":2,"saved_at":"2026-01-10T12:00:00Z","state":{"money":1}}`)
	second := []byte(`{"version":2,"saved_at":"2026-01-10T12:05:00Z","state":{"money":2}}`)
	require.NoError(t, store.WriteSlot(ctx, "player1", domain.SaveSlotPrimary, first))
	require.NoError(t, store.WriteSlot(ctx, "player1", domain.SaveSlotPrimary, second))

	got, err := store.ReadSlot(ctx, "player1", domain.SaveSlotPrimary)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := os.Stat(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(SaveFilePermissions), info.Mode().Perm())
}

func TestFileStore_RejectsPathEscapes(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"", "../evil", "a/b", `a\b`, "dotted.name"} {
		t.Run(id, func(t *testing.T) {
			err := store.WriteSlot(ctx, id, domain.SaveSlotPrimary, []byte("{}"))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestFileStore_DeleteSlots(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte(`{"version":2}`)
	require.NoError(t, store.WriteSlot(ctx, "player1", domain.SaveSlotPrimary, payload))
	require.NoError(t, store.WriteSlot(ctx, "player1", domain.SaveSlotBackup, payload))

	require.NoError(t, store.DeleteSlots(ctx, "player1"))
	_, err = store.ReadSlot(ctx, "player1", domain.SaveSlotPrimary)
	assert.ErrorIs(t, err, domain.ErrSaveNotFound)
	_, err = store.ReadSlot(ctx, "player1", domain.SaveSlotBackup)
	assert.ErrorIs(t, err, domain.ErrSaveNotFound)

	// Deleting a profile with no slots is not an error.
	assert.NoError(t, store.DeleteSlots(ctx, "player1"))
}

func TestFileStore_ListProfiles(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte(`{"version":2}`)
	require.NoError(t, store.WriteSlot(ctx, "alpha", domain.SaveSlotPrimary, payload))
	require.NoError(t, store.WriteSlot(ctx, "beta", domain.SaveSlotPrimary, payload))
	require.NoError(t, store.WriteSlot(ctx, "gamma", domain.SaveSlotBackup, payload))

	profiles, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, profiles)
}
