package domain

import "time"

// OfflineProjectResult records one project completed during offline
// simulation and the money it rewarded.
type OfflineProjectResult struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Reward    float64 `json:"reward"`
}

// OfflineReport summarizes progress earned while the player was away.
// Effective is the elapsed time after capping and efficiency scaling; all
// earnings derive from it.
type OfflineReport struct {
	Elapsed     time.Duration          `json:"elapsed"`
	Effective   time.Duration          `json:"effective"`
	Capped      bool                   `json:"capped"`
	ExpEarned   float64                `json:"exp_earned"`
	MoneyEarned float64                `json:"money_earned"`
	Projects    []OfflineProjectResult `json:"projects,omitempty"`
}

// IsZero reports whether the report carries no progress at all.
func (r *OfflineReport) IsZero() bool {
	return r.ExpEarned == 0 && r.MoneyEarned == 0 && len(r.Projects) == 0
}
