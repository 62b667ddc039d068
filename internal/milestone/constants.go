package milestone

// Proximity windows for the pending-soon query. A locked milestone is
// reported as coming up when every unmet requirement is inside its window.
const (
	PendingSoonLevelWindow = 5
	PendingSoonStageWindow = 1
)

// Log message constants
const (
	LogMsgConfigLoaded      = "Milestone config loaded"
	LogMsgMilestoneUnlocked = "milestone unlocked"
)
