package progression

import (
	"context"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/formula"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Recalculate recomputes the derived click and auto-income values from the
// owned upgrade map and applies them to the state, publishing change events
// when either pair moved. Owned upgrades missing from the balance tables
// contribute nothing; their levels stay on the state in case a later reload
// restores the definition.
func (s *service) Recalculate(ctx context.Context, profileID string, st *domain.PlayerState) formula.Derived {
	log := logger.FromContext(ctx)

	owned := make([]formula.OwnedEffect, 0, len(st.UpgradeLevels))
	for id, level := range st.UpgradeLevels {
		if level <= 0 {
			continue
		}
		def := s.store.GetUpgrade(ctx, id)
		if def == nil {
			log.Warn(LogMsgUnknownUpgrade, "profile_id", profileID, "upgrade_id", id)
			continue
		}
		for _, e := range def.Effects {
			owned = append(owned, formula.OwnedEffect{Effect: e, Level: level})
		}
	}

	agg := formula.AggregateEffects(owned)
	levelInfo := s.store.GetLevelInfo(ctx, st.Level)
	moneyUnlocked := st.HasMilestone(domain.MilestoneMoney)
	d := formula.DeriveValues(st, agg, levelInfo, moneyUnlocked)

	clickChanged := d.ExpPerClick != st.ExpPerClick || d.MoneyPerClick != st.MoneyPerClick
	autoChanged := d.AutoExpRate != st.AutoExpRate || d.AutoMoneyRate != st.AutoMoneyRate

	st.ExpPerClick = d.ExpPerClick
	st.MoneyPerClick = d.MoneyPerClick
	st.AutoExpRate = d.AutoExpRate
	st.AutoMoneyRate = d.AutoMoneyRate

	if clickChanged {
		s.publish(ctx, event.NewClickValuesChangedEvent(profileID, d.ExpPerClick, d.MoneyPerClick))
	}
	if autoChanged {
		s.publish(ctx, event.NewAutoIncomeChangedEvent(profileID, d.AutoExpRate, d.AutoMoneyRate))
	}

	return d
}
