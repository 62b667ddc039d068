package save

import (
	"encoding/json"
	"time"
)

// Envelope wraps a serialized PlayerState with the schema version that
// wrote it. State stays raw until the version is known, because old
// versions decode into different shapes before migration.
type Envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	State   json.RawMessage `json:"state"`
}
