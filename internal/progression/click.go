package progression

import (
	"context"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// ClickResult reports what a single click produced.
type ClickResult struct {
	ExpGained    float64 `json:"exp_gained"`
	MoneyGained  float64 `json:"money_gained"`
	LevelsGained int     `json:"levels_gained"`
	NewLevel     int     `json:"new_level"`
	NewStage     int     `json:"new_stage"`
	Experience   float64 `json:"experience"`
	Money        float64 `json:"money"`
}

// Click applies one click: the cached per-click values are credited and the
// level and stage loops run. Money per click stays zero until the money
// milestone unlocks, so early clicks earn experience only.
func (s *service) Click(ctx context.Context, profileID string, st *domain.PlayerState) (*ClickResult, error) {
	st.Stats.TotalClicks++
	st.LastPlayedAt = s.now()

	moneyGained := 0.0
	if st.MoneyPerClick > 0 {
		moneyGained = st.MoneyPerClick
		if err := s.AwardMoney(ctx, profileID, st, moneyGained, SourceClick); err != nil {
			return nil, err
		}
	}

	award, err := s.AwardExperience(ctx, profileID, st, st.ExpPerClick, SourceClick)
	if err != nil {
		return nil, err
	}

	return &ClickResult{
		ExpGained:    award.Amount,
		MoneyGained:  moneyGained,
		LevelsGained: award.NewLevel - award.OldLevel,
		NewLevel:     st.Level,
		NewStage:     st.Stage,
		Experience:   st.Experience,
		Money:        st.Money,
	}, nil
}
