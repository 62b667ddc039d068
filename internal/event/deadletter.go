package event

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// DeadLetterSchemaVersion is the version of the dead-letter log format.
// Bump when DeadLetterEntry changes shape.
const DeadLetterSchemaVersion = "1.0"

// DeadLetterWriter appends failed events to a JSONL file, one entry per
// line so operators can grep and re-inject individual events.
type DeadLetterWriter struct {
	file *os.File
	mu   sync.Mutex
}

// DeadLetterEntry is one event that exhausted its publish retries
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"` // Format version for future migrations
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// NewDeadLetterWriter opens the dead-letter file for appending, creating it
// if necessary.
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write records one failed event with its attempt count and final error.
func (dlw *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	dlw.mu.Lock()
	defer dlw.mu.Unlock()

	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now(),
		Event:         event,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	logger.Warn("event_dead_lettered",
		"event_type", event.Type,
		"attempts", attempts,
		"error", entry.LastError)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = dlw.file.Write(append(data, '\n'))
	return err
}

// Close flushes and closes the underlying file.
func (dlw *DeadLetterWriter) Close() error {
	return dlw.file.Close()
}
