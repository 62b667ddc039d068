package save

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// FileStore keeps one JSON file per profile and slot under a base
// directory. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated slot behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, SaveDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) ReadSlot(_ context.Context, profileID, slot string) ([]byte, error) {
	path, err := s.slotPath(profileID, slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrSaveNotFound, profileID, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save slot: %w", err)
	}
	return data, nil
}

func (s *FileStore) WriteSlot(_ context.Context, profileID, slot string, data []byte) error {
	path, err := s.slotPath(profileID, slot)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write save data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close save file: %w", err)
	}
	if err := os.Chmod(tmpName, SaveFilePermissions); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set save file permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move save file into place: %w", err)
	}
	return nil
}

func (s *FileStore) DeleteSlots(_ context.Context, profileID string) error {
	for _, slot := range []string{domain.SaveSlotPrimary, domain.SaveSlotBackup} {
		path, err := s.slotPath(profileID, slot)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete save slot: %w", err)
		}
	}
	return nil
}

func (s *FileStore) ListProfiles(_ context.Context) ([]string, error) {
	suffix := fmt.Sprintf("_%s.json", domain.SaveSlotPrimary)
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+suffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list save files: %w", err)
	}
	profiles := make([]string, 0, len(matches))
	for _, path := range matches {
		profiles = append(profiles, strings.TrimSuffix(filepath.Base(path), suffix))
	}
	return profiles, nil
}

// slotPath builds the file name for a profile and slot. Profile ids come in
// from the API, so anything that could escape the base directory is
// rejected rather than sanitized.
func (s *FileStore) slotPath(profileID, slot string) (string, error) {
	if profileID == "" || strings.ContainsAny(profileID, `/\.`) {
		return "", fmt.Errorf("%w: bad profile id %q", domain.ErrInvalidInput, profileID)
	}
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", profileID, slot)), nil
}
