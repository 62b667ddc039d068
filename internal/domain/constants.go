package domain

// Currency internal name constants - stable code identifiers
const (
	CurrencyMoney      = "money"
	CurrencyExperience = "exp"
)

// Upgrade category constants - match the category column of the upgrade table
const (
	CategorySkills     = "skills"
	CategoryEquipment  = "equipment"
	CategoryTeam       = "team"
	CategoryAutomation = "automation"
)

// Effect type constants - match the effect type tokens in the upgrade table.
// Additive types accumulate; multiplier types compound.
const (
	EffectExpPerClick     = "exp_per_click"
	EffectMoneyPerClick   = "money_per_click"
	EffectAutoExp         = "auto_exp"
	EffectAutoMoney       = "auto_money"
	EffectExpMultiplier   = "exp_multiplier"
	EffectMoneyMultiplier = "money_multiplier"
	EffectAllMultiplier   = "all_multiplier"
)

// Well-known milestone ids. The milestone config may define more; these are
// the ones code paths reference directly.
const (
	MilestoneMoney      = "money"
	MilestoneProjects   = "projects"
	MilestoneAutoDev    = "auto_dev"
	MilestoneTeamHiring = "team_hiring"
)

// Milestone type constants - group milestones so feature gates can ask
// "is any milestone of this type unlocked" instead of hard-coding ids
const (
	MilestoneTypeCurrency   = "currency"
	MilestoneTypeFeature    = "feature"
	MilestoneTypeAutomation = "automation"
)

// Multiplier map keys for PlayerState.CurrencyMultipliers
const (
	MultiplierMoney = "money"
	MultiplierExp   = "exp"
	MultiplierAll   = "all"
)

// Save slot name constants
const (
	SaveSlotPrimary = "primary"
	SaveSlotBackup  = "backup"
)

// SaveVersionCurrent is the envelope version written by new saves.
// Version 1 saves predate the money/exp currency split and are migrated
// on load.
const SaveVersionCurrent = 2

// Starting values for a fresh player
const (
	StartingLevel       = 1
	StartingStage       = 1
	StartingExpPerClick = 1.0
)

// BaseMoneyPerClick is the flat money added to every click once the money
// milestone is unlocked. Before that clicks earn no money at all.
const BaseMoneyPerClick = 1.0

// MoneyUnlockLevel is the player level the money milestone unlocks at.
// Kept here because save migration needs it without a milestone config.
const MoneyUnlockLevel = 10

// Legacy migration ratios for version 1 saves. The old single click power
// value is split into experience and money components.
const (
	LegacyMoneyPerClickRatio = 0.5
	LegacyAutoMoneyRatio     = 0.3
)

// ProjectRequirementGrowth is the factor each repeated project completion
// multiplies its experience requirement by during offline simulation.
const ProjectRequirementGrowth = 1.5

// Shared metadata keys used across multiple modules for event payloads
// These keys ensure consistency when publishing and consuming events
const (
	// MetadataKeyUpgradeID is used to store upgrade ids in event metadata
	MetadataKeyUpgradeID = "upgrade_id"

	// MetadataKeyMilestoneID is used to store milestone ids in event metadata
	MetadataKeyMilestoneID = "milestone_id"

	// MetadataKeySource is used to store the source/origin in event metadata
	MetadataKeySource = "source"
)
