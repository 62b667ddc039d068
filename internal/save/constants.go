package save

// SaveSchemaPath points at the JSON schema every stored envelope is
// validated against before decoding. Resolved relative to the project root.
const SaveSchemaPath = "configs/schemas/save.schema.json"

// File store permissions
const (
	SaveFilePermissions = 0600
	SaveDirPermissions  = 0755
)

// Log message constants
const (
	LogMsgSaved               = "Player state saved"
	LogMsgLoaded              = "Player state loaded"
	LogMsgFreshProfile        = "No save found, starting fresh profile"
	LogMsgMigrated            = "Save migrated to current version"
	LogMsgFutureVersion       = "Save version is newer than this build, loading best-effort"
	LogMsgPrimarySlotBad      = "Primary save slot unreadable, trying backup"
	LogMsgBackupSlotBad       = "Backup save slot unreadable, starting fresh profile"
	LogMsgBackupCopyFailed    = "Could not copy primary slot to backup before save"
	LogMsgSaveFailed          = "Failed to write save"
	LogMsgSlotsDeleted        = "Save slots deleted"
	NotificationSaveFailed    = "Your progress could not be saved. It will be retried automatically."
	NotificationSaveRecovered = "Your save was restored from a backup copy."
	NotificationSaveLost      = "Your save could not be read and a new game was started."
)

// Error message constants
const (
	ErrMsgMarshalState    = "failed to serialize player state"
	ErrMsgEnvelopeDecode  = "failed to decode save envelope"
	ErrMsgStateDecode     = "failed to decode player state"
	ErrMsgSchemaViolation = "save envelope failed schema validation"
)
