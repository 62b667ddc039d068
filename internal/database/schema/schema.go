package schema

// SchemaSQL is the full database schema. It matches the goose migrations
// under migrations/ and exists so tests and single-node deployments can
// initialize a database without the goose binary.
const SchemaSQL = `
-- Save Slots
-- One row per profile and slot ("primary"/"backup"). The payload column
-- holds the full versioned save envelope; version is duplicated from the
-- envelope for operational queries.
CREATE TABLE IF NOT EXISTS save_slots (
    profile_id VARCHAR(64) NOT NULL,
    slot VARCHAR(16) NOT NULL,
    version INTEGER NOT NULL DEFAULT 0,
    payload JSONB NOT NULL,
    saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (profile_id, slot)
);

CREATE INDEX IF NOT EXISTS idx_save_slots_version ON save_slots (version);
`
