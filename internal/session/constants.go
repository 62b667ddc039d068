package session

// Error Messages
const (
	ErrMsgManagerClosed = "session manager is shut down"
	ErrMsgLoadSession   = "failed to load session"
)

// Log Messages
const (
	LogMsgSessionOpened     = "Session opened"
	LogMsgSessionEvicted    = "Session evicted, save queued"
	LogMsgSessionReadopted  = "Session re-adopted before eviction save ran"
	LogMsgEvictionSaveError = "Eviction save failed"
	LogMsgSweepDone         = "Autosave sweep finished"
	LogMsgSweepSaveError    = "Autosave failed for session"
	LogMsgCloseSaveError    = "Shutdown save failed for session"
)
