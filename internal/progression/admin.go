package progression

import (
	"context"
	"fmt"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// StatePatch is the admin override surface for a profile's state. Nil
// fields are left untouched; an upgrade level of zero removes the entry.
type StatePatch struct {
	Money         *float64       `json:"money,omitempty" validate:"omitempty,gte=0"`
	Experience    *float64       `json:"experience,omitempty" validate:"omitempty,gte=0"`
	Level         *int           `json:"level,omitempty" validate:"omitempty,gte=1"`
	Stage         *int           `json:"stage,omitempty" validate:"omitempty,gte=1"`
	UpgradeLevels map[string]int `json:"upgrade_levels,omitempty"`
	Milestones    []string       `json:"milestones,omitempty"`
}

// SetPlayerData force-applies an admin override to a profile's state, then
// re-runs the level and stage loops so the result is internally consistent.
// This is the one mutation path allowed to lower experience; normal play
// only ever raises it.
func (s *service) SetPlayerData(ctx context.Context, profileID string, st *domain.PlayerState, patch StatePatch) error {
	if patch.Money != nil && *patch.Money < 0 {
		return fmt.Errorf("%w: money must be >= 0", domain.ErrInvalidInput)
	}
	if patch.Experience != nil && *patch.Experience < 0 {
		return fmt.Errorf("%w: experience must be >= 0", domain.ErrInvalidInput)
	}
	if patch.Level != nil && *patch.Level < 1 {
		return fmt.Errorf("%w: level must be >= 1", domain.ErrInvalidInput)
	}
	if patch.Stage != nil && *patch.Stage < 1 {
		return fmt.Errorf("%w: stage must be >= 1", domain.ErrInvalidInput)
	}
	for id, level := range patch.UpgradeLevels {
		if level < 0 {
			return fmt.Errorf("%w: upgrade %s level must be >= 0", domain.ErrInvalidInput, id)
		}
	}

	if patch.Money != nil {
		st.Money = *patch.Money
	}
	if patch.Experience != nil {
		st.Experience = *patch.Experience
	}
	if patch.Level != nil {
		st.Level = *patch.Level
	}
	if patch.Stage != nil {
		st.Stage = *patch.Stage
	}
	for id, level := range patch.UpgradeLevels {
		if level == 0 {
			delete(st.UpgradeLevels, id)
			continue
		}
		if st.UpgradeLevels == nil {
			st.UpgradeLevels = make(map[string]int)
		}
		st.UpgradeLevels[id] = level
	}
	for _, id := range patch.Milestones {
		st.AddMilestone(id)
	}

	s.applyLevelUps(ctx, profileID, st, SourceAdmin)
	s.applyStageUnlocks(ctx, profileID, st)

	logger.FromContext(ctx).Info(LogMsgStateOverride, "profile_id", profileID)
	return nil
}
