package domain

import (
	"slices"
	"time"
)

// PlayerStats are the lifetime counters tracked for a profile. All counters
// are monotonically increasing.
type PlayerStats struct {
	TotalClicks       int64   `json:"total_clicks"`
	TotalMoneyEarned  float64 `json:"total_money_earned"`
	TotalExpEarned    float64 `json:"total_exp_earned"`
	UpgradesPurchased int64   `json:"upgrades_purchased"`
	ProjectsCompleted int64   `json:"projects_completed"`
	SaveCount         int64   `json:"save_count"`
	PlaytimeSeconds   float64 `json:"playtime_seconds"`
}

// PlayerState is the full mutable state of one profile. It is the unit of
// persistence; everything the engine needs to resume a session lives here.
type PlayerState struct {
	Money      float64 `json:"money"`
	Experience float64 `json:"experience"` // cumulative, never spent by leveling
	Level      int     `json:"level"`
	Stage      int     `json:"stage"`

	// Derived click and auto-income values. Recomputed from owned upgrades
	// after every purchase and on load; persisted so a loaded save is
	// playable before the first recompute.
	ExpPerClick   float64 `json:"exp_per_click"`
	MoneyPerClick float64 `json:"money_per_click"`
	AutoExpRate   float64 `json:"auto_exp_rate"`   // per second
	AutoMoneyRate float64 `json:"auto_money_rate"` // per second

	UpgradeLevels       map[string]int     `json:"upgrade_levels"`
	UnlockedMilestones  []string           `json:"unlocked_milestones"` // append-only
	CompletedProjects   []string           `json:"completed_projects"`
	CurrencyMultipliers map[string]float64 `json:"currency_multipliers"`

	Stats PlayerStats `json:"stats"`

	FirstPlayedAt time.Time `json:"first_played_at"`
	LastSavedAt   time.Time `json:"last_saved_at"`
	LastPlayedAt  time.Time `json:"last_played_at"`
}

// NewPlayerState returns the state a brand new profile starts with.
func NewPlayerState(now time.Time) *PlayerState {
	return &PlayerState{
		Level:         StartingLevel,
		Stage:         StartingStage,
		ExpPerClick:   StartingExpPerClick,
		UpgradeLevels: make(map[string]int),
		CurrencyMultipliers: map[string]float64{
			MultiplierMoney: 1.0,
			MultiplierExp:   1.0,
			MultiplierAll:   1.0,
		},
		FirstPlayedAt: now,
		LastPlayedAt:  now,
	}
}

// UpgradeLevel returns the owned level of an upgrade, zero when not owned.
func (s *PlayerState) UpgradeLevel(upgradeID string) int {
	return s.UpgradeLevels[upgradeID]
}

// Multiplier returns the named currency multiplier, defaulting to 1.0 for
// unknown or unset keys so multiplication is always safe.
func (s *PlayerState) Multiplier(key string) float64 {
	if s.CurrencyMultipliers == nil {
		return 1.0
	}
	if v, ok := s.CurrencyMultipliers[key]; ok && v > 0 {
		return v
	}
	return 1.0
}

// SetMultiplier sets a currency multiplier, allocating the map on first use.
func (s *PlayerState) SetMultiplier(key string, value float64) {
	if s.CurrencyMultipliers == nil {
		s.CurrencyMultipliers = make(map[string]float64)
	}
	s.CurrencyMultipliers[key] = value
}

// HasMilestone reports whether a milestone id is in the unlocked set.
func (s *PlayerState) HasMilestone(id string) bool {
	return slices.Contains(s.UnlockedMilestones, id)
}

// AddMilestone appends a milestone id to the unlocked set if not present.
// Returns true when the set changed.
func (s *PlayerState) AddMilestone(id string) bool {
	if s.HasMilestone(id) {
		return false
	}
	s.UnlockedMilestones = append(s.UnlockedMilestones, id)
	return true
}

// HasCompletedProject reports whether a project id has been completed.
func (s *PlayerState) HasCompletedProject(id string) bool {
	return slices.Contains(s.CompletedProjects, id)
}

// Balance returns the player's balance in the given currency.
func (s *PlayerState) Balance(currency string) float64 {
	switch currency {
	case CurrencyExperience:
		return s.Experience
	default:
		return s.Money
	}
}

// Clone returns a deep copy safe to hand outside the session lock.
func (s *PlayerState) Clone() *PlayerState {
	cp := *s
	cp.UpgradeLevels = make(map[string]int, len(s.UpgradeLevels))
	for k, v := range s.UpgradeLevels {
		cp.UpgradeLevels[k] = v
	}
	cp.CurrencyMultipliers = make(map[string]float64, len(s.CurrencyMultipliers))
	for k, v := range s.CurrencyMultipliers {
		cp.CurrencyMultipliers[k] = v
	}
	cp.UnlockedMilestones = slices.Clone(s.UnlockedMilestones)
	cp.CompletedProjects = slices.Clone(s.CompletedProjects)
	return &cp
}
