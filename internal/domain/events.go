package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking. These represent domain events that can be published
// and consumed by multiple modules.
//
// Event types follow the pattern: <entity>.<action> (e.g., "player.level_up")
const (
	// EventTypeMoneyChanged is published whenever the money balance moves
	EventTypeMoneyChanged = "player.money_changed"

	// EventTypeExperienceChanged is published whenever cumulative experience moves
	EventTypeExperienceChanged = "player.experience_changed"

	// EventTypeClickValuesChanged is published when derived per-click values are recomputed
	EventTypeClickValuesChanged = "player.click_values_changed"

	// EventTypeAutoIncomeChanged is published when derived auto income rates are recomputed
	EventTypeAutoIncomeChanged = "player.auto_income_changed"

	// EventTypeLevelUp is published once per level gained, even when one
	// experience award crosses several thresholds
	EventTypeLevelUp = "player.level_up"

	// EventTypeStageUnlocked is published when the player advances to a new stage
	EventTypeStageUnlocked = "player.stage_unlocked"

	// EventTypeMilestoneUnlocked is published the first time a milestone's
	// conditions pass, never again for the same milestone
	EventTypeMilestoneUnlocked = "milestone.unlocked"

	// EventTypeUpgradePurchased is published after a successful purchase
	EventTypeUpgradePurchased = "upgrade.purchased"

	// EventTypeProjectCompleted is published when a project finishes
	EventTypeProjectCompleted = "project.completed"

	// EventTypeOfflineProgress is published after an offline report is applied
	EventTypeOfflineProgress = "offline.progress_calculated"

	// EventTypeNotification is published for human-readable announcements
	// surfaced to clients (milestones, stage changes)
	EventTypeNotification = "game.notification"

	// EventTypeBalanceReloaded is published after the balance tables reload
	EventTypeBalanceReloaded = "balance.reloaded"

	// EventTypeGameSaved is published after every save attempt, successful
	// or not
	EventTypeGameSaved = "game.saved"
)
