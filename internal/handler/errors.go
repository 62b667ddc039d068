package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Path and query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidProfileID  = "Invalid profile id"
	ErrMsgInvalidWithin     = "Invalid within parameter"

	// Operation error messages, used both as log lines and fallback responses
	ErrMsgClickFailed         = "Failed to process click"
	ErrMsgPurchaseFailed      = "Failed to purchase upgrade"
	ErrMsgQuoteFailed         = "Failed to quote upgrade"
	ErrMsgGetUpgradesFailed   = "Failed to retrieve upgrades"
	ErrMsgGetStateFailed      = "Failed to retrieve player state"
	ErrMsgGetMilestonesFailed = "Failed to retrieve milestones"
	ErrMsgSaveFailed          = "Failed to save game"
	ErrMsgResetFailed         = "Failed to reset profile"
	ErrMsgOfflineFailed       = "Failed to calculate offline progress"
	ErrMsgUpdatePlayerFailed  = "Failed to update player data"
	ErrMsgReloadBalanceFailed = "Failed to reload balance data"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgGameSavedSuccess       = "Game saved successfully"
	MsgProfileResetSuccess    = "Profile reset successfully"
	MsgBalanceReloadedSuccess = "Balance data reloaded successfully"
	MsgPlayerUpdatedSuccess   = "Player data updated successfully"
)
