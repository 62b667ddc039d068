package formula

import (
	"math"
	"testing"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

func levelTable() []domain.LevelDefinition {
	return []domain.LevelDefinition{
		{Level: 1, RequiredExp: 0},
		{Level: 2, RequiredExp: 100},
		{Level: 3, RequiredExp: 250},
		{Level: 4, RequiredExp: 500},
	}
}

func TestNextLevelRequirement_InsideTable(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  float64
	}{
		{"level 1 needs level 2 row", 1, 100},
		{"level 2 needs level 3 row", 2, 250},
		{"level 3 needs level 4 row", 3, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextLevelRequirement(levelTable(), tt.level); got != tt.want {
				t.Errorf("NextLevelRequirement(%d) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNextLevelRequirement_Extrapolates(t *testing.T) {
	// Growth derived from last two rows: 500/250 = 2.0
	levels := levelTable()

	if got, want := NextLevelRequirement(levels, 4), 1000.0; math.Abs(got-want) > priceEpsilon {
		t.Errorf("one step past table = %v, want %v", got, want)
	}
	if got, want := NextLevelRequirement(levels, 6), 4000.0; math.Abs(got-want) > priceEpsilon {
		t.Errorf("three steps past table = %v, want %v", got, want)
	}
}

func TestNextLevelRequirement_ShortTableFallbackGrowth(t *testing.T) {
	levels := []domain.LevelDefinition{{Level: 1, RequiredExp: 100}}

	// Single row cannot derive growth; default growth applies
	if got, want := NextLevelRequirement(levels, 1), 150.0; math.Abs(got-want) > priceEpsilon {
		t.Errorf("NextLevelRequirement = %v, want %v", got, want)
	}
}

func TestNextLevelRequirement_EmptyTable(t *testing.T) {
	if got := NextLevelRequirement(nil, 3); got != 0 {
		t.Errorf("NextLevelRequirement on empty table = %v, want 0", got)
	}
}

func TestRequirementGrowth(t *testing.T) {
	tests := []struct {
		name   string
		levels []domain.LevelDefinition
		want   float64
	}{
		{"derived from last two rows", levelTable(), 2.0},
		{"single row falls back", []domain.LevelDefinition{{Level: 1, RequiredExp: 50}}, DefaultRequirementGrowth},
		{"non-increasing falls back", []domain.LevelDefinition{
			{Level: 1, RequiredExp: 100},
			{Level: 2, RequiredExp: 100},
		}, DefaultRequirementGrowth},
		{"zero previous falls back", []domain.LevelDefinition{
			{Level: 1, RequiredExp: 0},
			{Level: 2, RequiredExp: 100},
		}, DefaultRequirementGrowth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequirementGrowth(tt.levels); got != tt.want {
				t.Errorf("RequirementGrowth() = %v, want %v", got, tt.want)
			}
		})
	}
}
