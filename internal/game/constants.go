package game

// Error message constants
const (
	ErrMsgLoadProfile   = "failed to load profile"
	ErrMsgReloadBalance = "failed to reload balance data"
)

// Log message constants
const (
	LogMsgSessionLoaded         = "profile state loaded"
	LogMsgOfflineApplied        = "offline progress applied"
	LogMsgOfflineProjectSkipped = "offline project no longer applies, skipping"
	LogMsgProfileReset          = "profile reset to initial state"
	LogMsgBalanceReloaded       = "balance tables reloaded"
)
