package formula

import (
	"math"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// Price computes the cost of buying the next level of an upgrade when the
// player already owns ownedLevel levels.
// Formula: basePrice * priceMultiplier^ownedLevel
// Example: base 10, multiplier 1.15, owned 3 -> 10 * 1.15^3 = 15.2088
//
// ownedLevel 0 always prices at basePrice. A multiplier of zero or below
// disables scaling entirely and the upgrade costs basePrice at every level.
func Price(def *domain.UpgradeDefinition, ownedLevel int) float64 {
	if ownedLevel <= 0 {
		return def.BasePrice
	}
	if def.PriceMultiplier <= 0 {
		return def.BasePrice
	}
	return def.BasePrice * math.Pow(def.PriceMultiplier, float64(ownedLevel))
}
