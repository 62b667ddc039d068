package progression

// Award source constants - identify what produced a currency or level change
const (
	SourceClick   = "click"
	SourceLevelUp = "level_up"
	SourceProject = "project"
	SourceOnline  = "online"
	SourceOffline = "offline"
	SourceAdmin   = "admin"
)

// Log message constants
const (
	LogMsgUnknownUpgrade   = "owned upgrade missing from balance tables, skipping"
	LogMsgLevelLoopGuard   = "level-up loop hit iteration guard"
	LogMsgLeveledUp        = "player leveled up"
	LogMsgStageUnlocked    = "player advanced to new stage"
	LogMsgProjectCompleted = "project completed"
	LogMsgStateOverride    = "player state overridden"
)
