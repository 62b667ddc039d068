package offline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

var calcBase = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

type stubStore struct {
	projects map[int][]*domain.ProjectDefinition
}

func (s *stubStore) GetProjectsByStage(_ context.Context, stage int) []*domain.ProjectDefinition {
	return s.projects[stage]
}

func newTestCalculator() Calculator {
	store := &stubStore{projects: map[int][]*domain.ProjectDefinition{
		1: {
			{ID: "tutorial_game", Stage: 1, Name: "Tutorial Game", RequiredExp: 100, BaseReward: 50},
			{ID: "first_release", Stage: 1, Name: "First Release", RequiredExp: 400, BaseReward: 200},
		},
		2: {
			{ID: "indie_hit", Stage: 2, Name: "Indie Hit", RequiredExp: 1000, BaseReward: 800},
		},
	}}
	return NewCalculator(store, DefaultConfig())
}

func idleState(autoExp, autoMoney float64) *domain.PlayerState {
	st := domain.NewPlayerState(calcBase.Add(-48 * time.Hour))
	st.AutoExpRate = autoExp
	st.AutoMoneyRate = autoMoney
	return st
}

func TestCalculate_ShortGapsEarnNothing(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(2, 1)
	st.AddMilestone(domain.MilestoneMoney)

	t.Run("below minimum", func(t *testing.T) {
		report := calc.Calculate(context.Background(), st, calcBase.Add(-30*time.Second), calcBase)
		assert.True(t, report.IsZero())
		assert.Equal(t, 30*time.Second, report.Elapsed)
		assert.Equal(t, time.Duration(0), report.Effective)
		assert.False(t, report.Capped)
	})

	t.Run("clock skew", func(t *testing.T) {
		report := calc.Calculate(context.Background(), st, calcBase.Add(time.Hour), calcBase)
		assert.True(t, report.IsZero())
		assert.Equal(t, time.Duration(0), report.Elapsed)
	})

	t.Run("exactly at minimum earns", func(t *testing.T) {
		report := calc.Calculate(context.Background(), st, calcBase.Add(-60*time.Second), calcBase)
		assert.False(t, report.IsZero())
		assert.InDelta(t, 60, report.ExpEarned, 1e-9) // 2/sec at half rate for 60s
	})
}

func TestCalculate_AppliesEfficiency(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(2, 1)
	st.AddMilestone(domain.MilestoneMoney)
	st.Stage = 3 // no projects, keeps the earnings isolated

	report := calc.Calculate(context.Background(), st, calcBase.Add(-1000*time.Second), calcBase)

	assert.Equal(t, 1000*time.Second, report.Elapsed)
	assert.Equal(t, 500*time.Second, report.Effective)
	assert.False(t, report.Capped)
	assert.InDelta(t, 1000, report.ExpEarned, 1e-9)
	assert.InDelta(t, 500, report.MoneyEarned, 1e-9)
	assert.Empty(t, report.Projects)
}

func TestCalculate_MoneyRequiresMilestone(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(2, 1)
	st.Stage = 3

	report := calc.Calculate(context.Background(), st, calcBase.Add(-1000*time.Second), calcBase)

	assert.InDelta(t, 1000, report.ExpEarned, 1e-9)
	assert.Zero(t, report.MoneyEarned)
}

func TestCalculate_CapsLongAbsences(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(2, 1)
	st.AddMilestone(domain.MilestoneMoney)
	st.Stage = 3

	capped := calc.Calculate(context.Background(), st, calcBase.Add(-48*time.Hour), calcBase)
	exact := calc.Calculate(context.Background(), st, calcBase.Add(-24*time.Hour), calcBase)

	assert.True(t, capped.Capped)
	assert.False(t, exact.Capped)
	assert.Equal(t, 48*time.Hour, capped.Elapsed)
	assert.Equal(t, 12*time.Hour, capped.Effective)
	assert.Equal(t, exact.Effective, capped.Effective)
	assert.Equal(t, exact.ExpEarned, capped.ExpEarned)
	assert.Equal(t, exact.MoneyEarned, capped.MoneyEarned)
}

func TestCalculate_ZeroRatesCarryNoProgress(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(0, 0)

	report := calc.Calculate(context.Background(), st, calcBase.Add(-2*time.Hour), calcBase)

	assert.True(t, report.IsZero())
	assert.Equal(t, time.Hour, report.Effective)
}

func TestCalculate_SimulatesProjectCompletions(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(2, 0)

	// 400 seconds at 2 exp/sec and half efficiency accrues a 400 exp pool.
	report := calc.Calculate(context.Background(), st, calcBase.Add(-400*time.Second), calcBase)
	require.InDelta(t, 400, report.ExpEarned, 1e-9)

	// Tutorial Game (100 exp) fits four times, its requirement growing
	// 100 → 150 → 225 → 337.5 → 506.25; First Release (400 exp) then
	// fits exactly once before nothing is affordable.
	var ids []string
	var rewards float64
	for _, p := range report.Projects {
		ids = append(ids, p.ProjectID)
		rewards += p.Reward
	}
	assert.Equal(t, []string{"tutorial_game", "tutorial_game", "tutorial_game", "tutorial_game", "first_release"}, ids)
	assert.Equal(t, 400.0, rewards)
	assert.Equal(t, "Tutorial Game", report.Projects[0].Name)
}

func TestCalculate_ProjectsAlreadyCompletedAreSkipped(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(2, 0)
	st.CompletedProjects = []string{"tutorial_game"}

	report := calc.Calculate(context.Background(), st, calcBase.Add(-400*time.Second), calcBase)

	require.Len(t, report.Projects, 1)
	assert.Equal(t, "first_release", report.Projects[0].ProjectID)
}

func TestCalculate_ProjectsScopedToCurrentStage(t *testing.T) {
	calc := newTestCalculator()
	st := idleState(2, 0)
	st.Stage = 2

	report := calc.Calculate(context.Background(), st, calcBase.Add(-400*time.Second), calcBase)
	assert.Empty(t, report.Projects) // Indie Hit needs 1000 exp

	report = calc.Calculate(context.Background(), st, calcBase.Add(-1000*time.Second), calcBase)
	require.Len(t, report.Projects, 1)
	assert.Equal(t, "indie_hit", report.Projects[0].ProjectID)
}

func TestConfig_Normalized(t *testing.T) {
	got := Config{MinElapsed: -time.Second, Cap: 0, Efficiency: 1.5}.normalized()
	assert.Equal(t, DefaultConfig(), got)

	zeroMin := Config{MinElapsed: 0, Cap: time.Hour, Efficiency: 0.25}.normalized()
	assert.Equal(t, time.Duration(0), zeroMin.MinElapsed)
	assert.Equal(t, time.Hour, zeroMin.Cap)
	assert.Equal(t, 0.25, zeroMin.Efficiency)
}
