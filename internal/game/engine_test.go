package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
)

func TestEngine_FreshStart(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	result, err := eng.Load(ctx)
	require.NoError(t, err)
	assert.True(t, result.Fresh)

	st := eng.State()
	assert.Equal(t, 1, st.Level)
	assert.Equal(t, 1, st.Stage)
	assert.Zero(t, st.Money)
	assert.Equal(t, 1.0, st.ExpPerClick)

	click, err := eng.PerformClick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, click.ExpGained)
	assert.Zero(t, click.MoneyGained, "money per click stays zero before the milestone")

	st = eng.State()
	assert.Equal(t, 1.0, st.Experience)
	assert.Equal(t, int64(1), st.Stats.TotalClicks)
	assert.True(t, st.LastPlayedAt.Equal(engBase))
}

func TestEngine_StateIsACopy(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := eng.Load(ctx)
	require.NoError(t, err)

	view := eng.State()
	view.Money = 999
	view.UpgradeLevels["learn_coding"] = 7

	st := eng.State()
	assert.Zero(t, st.Money)
	assert.Empty(t, st.UpgradeLevels)
}

func TestEngine_AdminPatchCascades(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := eng.Load(ctx)
	require.NoError(t, err)

	exp := 120.0
	require.NoError(t, eng.SetPlayerData(ctx, progression.StatePatch{Experience: &exp}))

	st := eng.State()
	assert.Equal(t, 2, st.Level, "patched experience re-runs the level loop")
	assert.Equal(t, 5.0, st.Money, "level 2 bonus pays out")
	assert.True(t, st.HasMilestone(domain.MilestoneProjects))

	unlocks := bus.byType(event.MilestoneUnlocked)
	require.Len(t, unlocks, 1)
	payload, ok := unlocks[0].Payload.(event.MilestoneUnlockedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, domain.MilestoneProjects, payload.MilestoneID)

	// Money needs one more level; auto_dev hides behind its still-locked
	// prerequisite.
	pending := eng.PendingMilestones(0)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.MilestoneMoney, pending[0].ID)
}

func TestEngine_PurchaseAppliesEffects(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := eng.Load(ctx)
	require.NoError(t, err)

	exp := 10.0
	require.NoError(t, eng.SetPlayerData(ctx, progression.StatePatch{Experience: &exp}))

	result, err := eng.PurchaseUpgrade(ctx, "learn_coding")
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewLevel)
	assert.Equal(t, 10.0, result.PricePaid)

	st := eng.State()
	assert.Zero(t, st.Experience, "experience purchases spend the pool")
	assert.Equal(t, 2.0, st.ExpPerClick, "base click plus the purchased effect")
	assert.Len(t, bus.byType(event.UpgradePurchased), 1)

	_, err = eng.Quote(ctx, "time_machine")
	assert.ErrorIs(t, err, domain.ErrUpgradeNotFound)

	catalog := eng.Upgrades(ctx, "")
	require.Len(t, catalog, 3)
	assert.Equal(t, "ad_network", catalog[0].Upgrade.ID)
	assert.Equal(t, 1, catalog[2].Owned)
}

func TestEngine_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	eng1, _, _ := newTestEngineAt(t, dir)
	_, err := eng1.Load(ctx)
	require.NoError(t, err)

	exp := 120.0
	require.NoError(t, eng1.SetPlayerData(ctx, progression.StatePatch{Experience: &exp}))
	_, err = eng1.PurchaseUpgrade(ctx, "learn_coding")
	require.NoError(t, err)
	require.NoError(t, eng1.Save(ctx))

	// A second engine on the same save directory stands in for a process
	// restart.
	eng2, _, _ := newTestEngineAt(t, dir)
	result, err := eng2.Load(ctx)
	require.NoError(t, err)
	assert.False(t, result.Fresh)

	st := eng2.State()
	assert.Equal(t, 110.0, st.Experience)
	assert.Equal(t, 2, st.Level)
	assert.Equal(t, 5.0, st.Money)
	assert.Equal(t, map[string]int{"learn_coding": 1}, st.UpgradeLevels)
	assert.Equal(t, 2.0, st.ExpPerClick, "derived values rebuilt on load")
	assert.True(t, st.HasMilestone(domain.MilestoneProjects))
}

func TestEngine_OfflineCatchUp(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := eng.Load(ctx)
	require.NoError(t, err)

	// Own a coffee machine so the profile has an auto experience rate.
	require.NoError(t, eng.SetPlayerData(ctx, progression.StatePatch{
		UpgradeLevels: map[string]int{"coffee_machine": 1},
	}))
	require.Equal(t, 2.0, eng.State().AutoExpRate)

	eng.st.LastPlayedAt = engBase.Add(-400 * time.Second)

	report, err := eng.CalculateOfflineProgress(ctx)
	require.NoError(t, err)

	assert.Equal(t, 400*time.Second, report.Elapsed)
	assert.Equal(t, 200*time.Second, report.Effective)
	assert.False(t, report.Capped)
	assert.Equal(t, 400.0, report.ExpEarned)
	assert.Zero(t, report.MoneyEarned, "money milestone not unlocked at calculation time")
	require.Len(t, report.Projects, 4, "100→150→225→337.5 all fit in a 400 exp pool")
	for _, p := range report.Projects {
		assert.Equal(t, "text_adventure", p.ProjectID)
		assert.Equal(t, 50.0, p.Reward)
	}

	st := eng.State()
	assert.Equal(t, 400.0, st.Experience)
	assert.Equal(t, 3, st.Level)
	assert.Equal(t, 2, st.Stage)
	assert.Equal(t, 205.0, st.Money, "level bonus plus four project rewards")
	assert.Equal(t, []string{"text_adventure"}, st.CompletedProjects)
	assert.Equal(t, int64(4), st.Stats.ProjectsCompleted)
	assert.Equal(t, 1.0, st.MoneyPerClick, "money milestone unlocked during the apply")
	assert.True(t, st.LastPlayedAt.Equal(engBase))

	assert.Len(t, bus.byType(event.LevelUp), 2)
	assert.Len(t, bus.byType(event.StageUnlocked), 1)
	assert.Len(t, bus.byType(event.MilestoneUnlocked), 2)

	completed := bus.byType(event.ProjectCompleted)
	require.Len(t, completed, 4)
	payload, ok := completed[0].Payload.(event.ProjectCompletedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, progression.SourceOffline, payload.Source)

	offlineEvents := bus.byType(event.OfflineProgress)
	require.Len(t, offlineEvents, 1)
	progress, ok := offlineEvents[0].Payload.(event.OfflineProgressPayloadV1)
	require.True(t, ok)
	assert.Equal(t, 400.0, progress.ExpEarned)
	assert.Equal(t, 4, progress.ProjectsCompleted)

	// The gap was consumed; an immediate second call settles nothing.
	again, err := eng.CalculateOfflineProgress(ctx)
	require.NoError(t, err)
	assert.True(t, again.IsZero())
	assert.Len(t, bus.byType(event.OfflineProgress), 1)
	assert.Equal(t, 400.0, eng.State().Experience)
}

func TestEngine_OfflineBelowMinimumEmitsNothing(t *testing.T) {
	eng, bus, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := eng.Load(ctx)
	require.NoError(t, err)

	eng.st.LastPlayedAt = engBase.Add(-30 * time.Second)

	report, err := eng.CalculateOfflineProgress(ctx)
	require.NoError(t, err)
	assert.True(t, report.IsZero())
	assert.Equal(t, 30*time.Second, report.Elapsed)
	assert.Empty(t, bus.byType(event.OfflineProgress))
	assert.True(t, eng.State().LastPlayedAt.Equal(engBase))
}

func TestEngine_ResetWipesProfile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	eng, _, _ := newTestEngineAt(t, dir)
	_, err := eng.Load(ctx)
	require.NoError(t, err)

	exp := 120.0
	require.NoError(t, eng.SetPlayerData(ctx, progression.StatePatch{Experience: &exp}))
	require.NoError(t, eng.Save(ctx))

	require.NoError(t, eng.Reset(ctx))
	st := eng.State()
	assert.Equal(t, 1, st.Level)
	assert.Zero(t, st.Experience)
	assert.Zero(t, st.Money)

	// The slots are gone too: a restart starts fresh.
	eng2, _, _ := newTestEngineAt(t, dir)
	result, err := eng2.Load(ctx)
	require.NoError(t, err)
	assert.True(t, result.Fresh)
}

func TestEngine_LoadBalanceData(t *testing.T) {
	eng, _, balance := newTestEngine(t)
	ctx := context.Background()
	_, err := eng.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, eng.LoadBalanceData(ctx))
	assert.Equal(t, 1, balance.reloads)

	balance.err = errors.New("tables unreadable")
	err = eng.LoadBalanceData(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgReloadBalance)
}
