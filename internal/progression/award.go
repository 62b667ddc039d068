package progression

import (
	"context"
	"fmt"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/formula"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// AwardResult reports the outcome of one experience award, including every
// level and stage threshold crossed while applying it.
type AwardResult struct {
	Amount       float64 `json:"amount"`
	OldLevel     int     `json:"old_level"`
	NewLevel     int     `json:"new_level"`
	OldStage     int     `json:"old_stage"`
	NewStage     int     `json:"new_stage"`
	BonusReward  float64 `json:"bonus_reward"`
	NextLevelExp float64 `json:"next_level_exp"`
}

// LeveledUp reports whether the award crossed at least one level threshold.
func (r *AwardResult) LeveledUp() bool {
	return r.NewLevel > r.OldLevel
}

// AwardExperience adds experience to a profile and runs the level-up and
// stage-unlock loops. Experience is cumulative and is never consumed by
// leveling; a single large award can cross several thresholds and produces
// one level-up event per level gained.
func (s *service) AwardExperience(ctx context.Context, profileID string, st *domain.PlayerState, amount float64, source string) (*AwardResult, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: negative experience award %v", domain.ErrInvalidInput, amount)
	}

	result := &AwardResult{OldLevel: st.Level, OldStage: st.Stage}

	if amount > 0 {
		st.Experience += amount
		st.Stats.TotalExpEarned += amount
		result.Amount = amount
		s.publish(ctx, event.NewExperienceChangedEvent(profileID, amount, st.Experience, source))
	}

	result.BonusReward = s.applyLevelUps(ctx, profileID, st, source)
	s.applyStageUnlocks(ctx, profileID, st)

	result.NewLevel = st.Level
	result.NewStage = st.Stage
	result.NextLevelExp = s.NextLevelExp(st)
	return result, nil
}

// AwardMoney credits money to a profile. Debits go through the purchase
// path instead; this only accepts non-negative amounts.
func (s *service) AwardMoney(ctx context.Context, profileID string, st *domain.PlayerState, amount float64, source string) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative money award %v", domain.ErrInvalidInput, amount)
	}
	if amount == 0 {
		return nil
	}
	s.creditMoney(ctx, profileID, st, amount, source)
	return nil
}

func (s *service) creditMoney(ctx context.Context, profileID string, st *domain.PlayerState, amount float64, source string) {
	st.Money += amount
	st.Stats.TotalMoneyEarned += amount
	s.publish(ctx, event.NewMoneyChangedEvent(profileID, amount, st.Money, source))
}

// applyLevelUps advances the level while cumulative experience covers the
// next threshold. Returns the summed bonus rewards paid out. The iteration
// guard keeps a corrupt table with non-increasing requirements from
// spinning forever.
func (s *service) applyLevelUps(ctx context.Context, profileID string, st *domain.PlayerState, source string) float64 {
	log := logger.FromContext(ctx)

	levels := s.store.Levels()
	if len(levels) == 0 {
		return 0
	}

	totalBonus := 0.0
	for i := 0; ; i++ {
		if i >= formula.MaxLevelIterations {
			log.Warn(LogMsgLevelLoopGuard, "profile_id", profileID, "level", st.Level)
			break
		}

		required := formula.NextLevelRequirement(levels, st.Level)
		if required <= 0 || st.Experience < required {
			break
		}

		oldLevel := st.Level
		st.Level++

		bonus := 0.0
		if info := s.store.GetLevelInfo(ctx, st.Level); info != nil {
			bonus = info.BonusReward
		}
		if bonus > 0 {
			totalBonus += bonus
			s.creditMoney(ctx, profileID, st, bonus, SourceLevelUp)
		}

		next := formula.NextLevelRequirement(levels, st.Level)
		s.publish(ctx, event.NewLevelUpEvent(profileID, oldLevel, st.Level, next, bonus, source))
		log.Info(LogMsgLeveledUp,
			"profile_id", profileID,
			"old_level", oldLevel,
			"new_level", st.Level,
			"bonus", bonus,
			"source", source)
	}
	return totalBonus
}

// applyStageUnlocks advances the stage one step at a time until the next
// stage's level requirement is out of reach, so a batch catch-up award can
// cross several stages in one call.
func (s *service) applyStageUnlocks(ctx context.Context, profileID string, st *domain.PlayerState) {
	for st.Stage < s.store.MaxStage() {
		next := s.store.GetStageInfo(ctx, st.Stage+1)
		if next == nil || st.Level < next.RequiredLevel {
			break
		}

		oldStage := st.Stage
		st.Stage = next.Stage
		s.publish(ctx, event.NewStageUnlockedEvent(profileID, oldStage, st.Stage, next.Name))
		logger.FromContext(ctx).Info(LogMsgStageUnlocked,
			"profile_id", profileID,
			"old_stage", oldStage,
			"new_stage", st.Stage,
			"stage_name", next.Name)
	}
}
