package formula

import (
	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// OwnedEffect pairs an effect with the owned level of the upgrade granting
// it. Level zero contributes nothing.
type OwnedEffect struct {
	Effect domain.Effect
	Level  int
}

// EffectValue computes the contribution of one owned effect.
// Effects scale linearly: baseValue * level.
// Example: base 0.1 at level 2 -> 0.2
func EffectValue(e domain.Effect, level int) float64 {
	if level <= 0 {
		return 0
	}
	return e.BaseValue * float64(level)
}

// Aggregates holds per-effect-type totals folded from all owned effects.
// Additive types sum from zero; multiplier types compound from one, so an
// absent type is always the identity for its fold.
type Aggregates struct {
	additive    map[string]float64
	multipliers map[string]float64
}

// Additive returns the summed value for an additive effect type, zero when
// no owned upgrade grants it.
func (a Aggregates) Additive(effectType string) float64 {
	return a.additive[effectType]
}

// Multiplier returns the compounded factor for a multiplier effect type,
// 1.0 when no owned upgrade grants it.
func (a Aggregates) Multiplier(effectType string) float64 {
	if v, ok := a.multipliers[effectType]; ok {
		return v
	}
	return 1.0
}

// AggregateEffects folds all owned effects into per-type totals.
// Additive: acc += value. Multiplier: acc *= (1 + value).
// Both folds are commutative, so the order of owned upgrades never matters.
// Example: two money_per_click effects worth 1 and 2 -> 3.
// Example: all_multiplier base 0.1 at level 2 -> 1 * (1 + 0.2) = 1.2.
func AggregateEffects(owned []OwnedEffect) Aggregates {
	agg := Aggregates{
		additive:    make(map[string]float64),
		multipliers: make(map[string]float64),
	}

	for _, oe := range owned {
		value := EffectValue(oe.Effect, oe.Level)
		if value == 0 {
			continue
		}

		if oe.Effect.IsMultiplier {
			current, ok := agg.multipliers[oe.Effect.Type]
			if !ok {
				current = 1.0
			}
			agg.multipliers[oe.Effect.Type] = current * (1 + value)
		} else {
			agg.additive[oe.Effect.Type] += value
		}
	}

	return agg
}
