package domain

// Effect is a single stat contribution granted by owning an upgrade.
// Additive effects contribute BaseValue per owned level; multiplier effects
// contribute a compounding (1 + BaseValue*level) factor.
type Effect struct {
	Type         string  `json:"type"`
	BaseValue    float64 `json:"base_value"`
	IsMultiplier bool    `json:"is_multiplier"`
}

// KnownEffectType reports whether the formula engine resolves this effect
// type. Balance tables may ship types ahead of engine support; applying an
// unknown type is a logged no-op, not an error.
func KnownEffectType(effectType string) bool {
	switch effectType {
	case EffectExpPerClick, EffectMoneyPerClick, EffectAutoExp, EffectAutoMoney,
		EffectExpMultiplier, EffectMoneyMultiplier, EffectAllMultiplier:
		return true
	}
	return false
}

// UpgradeDefinition is one row of the upgrade balance table.
type UpgradeDefinition struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	BasePrice       float64  `json:"base_price"`
	PriceMultiplier float64  `json:"price_multiplier"`
	Currency        string   `json:"currency"`
	MaxLevel        int      `json:"max_level"` // 0 means uncapped
	UnlockLevel     int      `json:"unlock_level"`
	UnlockStage     int      `json:"unlock_stage"`
	Prerequisite    string   `json:"prerequisite,omitempty"` // upgrade id that must be owned
	Effects         []Effect `json:"effects"`
}

// LevelDefinition is one row of the level balance table. RequiredExp is
// cumulative from zero and strictly increasing across the table.
type LevelDefinition struct {
	Level           int     `json:"level"`
	RequiredExp     float64 `json:"required_exp"`
	MoneyMultiplier float64 `json:"money_multiplier"`
	BonusReward     float64 `json:"bonus_reward,omitempty"` // flat money granted on reaching the level
	UnlockTag       string  `json:"unlock_tag,omitempty"`
}

// ProjectDefinition is one row of the project balance table. Projects are
// surfaced per stage and completed by spending accumulated experience.
type ProjectDefinition struct {
	ID              string  `json:"id"`
	Stage           int     `json:"stage"`
	Name            string  `json:"name"`
	RequiredExp     float64 `json:"required_exp"`
	BaseReward      float64 `json:"base_reward"`
	CompletionHours float64 `json:"completion_hours"`
}

// StageDefinition is one row of the stage balance table. A stage unlocks
// when the player reaches RequiredLevel.
type StageDefinition struct {
	Stage         int    `json:"stage"`
	RequiredLevel int    `json:"required_level"`
	Name          string `json:"name"`
}
