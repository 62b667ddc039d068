package formula

import (
	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// RequirementGrowth derives the geometric growth factor of a level table
// from its last two rows. Tables too short or non-increasing fall back to
// the default growth so extrapolation always moves forward.
func RequirementGrowth(levels []domain.LevelDefinition) float64 {
	n := len(levels)
	if n < 2 {
		return DefaultRequirementGrowth
	}
	last := levels[n-1].RequiredExp
	prev := levels[n-2].RequiredExp
	if prev <= 0 || last <= prev {
		return DefaultRequirementGrowth
	}
	return last / prev
}

// NextLevelRequirement returns the cumulative experience needed to reach
// level+1. Levels covered by the table read straight from it; levels past
// the end extrapolate geometrically from the last row.
//
// The levels slice must be sorted ascending by level, which the balance
// store guarantees after load.
func NextLevelRequirement(levels []domain.LevelDefinition, level int) float64 {
	if len(levels) == 0 {
		return 0
	}

	next := level + 1
	for _, row := range levels {
		if row.Level == next {
			return row.RequiredExp
		}
	}

	last := levels[len(levels)-1]
	if next <= last.Level {
		// Gap inside the table; treat the nearest higher row as the target
		for _, row := range levels {
			if row.Level > next {
				return row.RequiredExp
			}
		}
		return last.RequiredExp
	}

	// Geometric extrapolation beyond the table
	growth := RequirementGrowth(levels)
	req := last.RequiredExp
	for l := last.Level; l < next; l++ {
		req *= growth
		if l-last.Level > MaxLevelIterations {
			break
		}
	}
	return req
}
