package formula

import (
	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// Derived holds the click and auto-income values recomputed from owned
// upgrades. These are cached on PlayerState and refreshed after every
// purchase, milestone unlock, and load.
type Derived struct {
	ExpPerClick   float64
	MoneyPerClick float64
	AutoExpRate   float64
	AutoMoneyRate float64
}

// DeriveValues computes all derived values for a player from aggregated
// effects, the current level row, and the money milestone state.
//
// Experience per click starts from the flat base every profile has; money
// per click starts from zero until the money milestone unlocks.
// Multiplier order never matters: each factor is applied exactly once.
func DeriveValues(st *domain.PlayerState, agg Aggregates, levelInfo *domain.LevelDefinition, moneyUnlocked bool) Derived {
	allMult := st.Multiplier(domain.MultiplierAll) * agg.Multiplier(domain.EffectAllMultiplier)
	expMult := st.Multiplier(domain.MultiplierExp) * agg.Multiplier(domain.EffectExpMultiplier)
	moneyMult := st.Multiplier(domain.MultiplierMoney) * agg.Multiplier(domain.EffectMoneyMultiplier)

	levelMoneyMult := 1.0
	if levelInfo != nil && levelInfo.MoneyMultiplier > 0 {
		levelMoneyMult = levelInfo.MoneyMultiplier
	}

	moneyBase := 0.0
	if moneyUnlocked {
		moneyBase = domain.BaseMoneyPerClick
	}

	return Derived{
		ExpPerClick: (domain.StartingExpPerClick + agg.Additive(domain.EffectExpPerClick)) *
			allMult * expMult,
		MoneyPerClick: (moneyBase + agg.Additive(domain.EffectMoneyPerClick)) *
			allMult * moneyMult * levelMoneyMult,
		AutoExpRate:   agg.Additive(domain.EffectAutoExp) * allMult * expMult,
		AutoMoneyRate: agg.Additive(domain.EffectAutoMoney) * allMult * moneyMult,
	}
}
