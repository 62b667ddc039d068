package game

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/milestone"
	"github.com/osse101/GameDevClicker_Go/internal/offline"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
	"github.com/osse101/GameDevClicker_Go/internal/save"
	"github.com/osse101/GameDevClicker_Go/internal/shop"
)

var engBase = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// stubStore serves fixed balance data to every service the engine drives:
// it satisfies the progression, shop and offline store interfaces at once.
type stubStore struct {
	upgrades map[string]*domain.UpgradeDefinition
	levels   []domain.LevelDefinition
	stages   map[int]*domain.StageDefinition
	projects map[string]*domain.ProjectDefinition
	byStage  map[int][]*domain.ProjectDefinition
}

func (s *stubStore) GetUpgrade(_ context.Context, id string) *domain.UpgradeDefinition {
	return s.upgrades[id]
}

func (s *stubStore) GetUpgradesByCategory(_ context.Context, category string) []*domain.UpgradeDefinition {
	var out []*domain.UpgradeDefinition
	for _, def := range s.upgrades {
		if def.Category == category {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *stubStore) AllUpgrades(_ context.Context) []*domain.UpgradeDefinition {
	out := make([]*domain.UpgradeDefinition, 0, len(s.upgrades))
	for _, def := range s.upgrades {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *stubStore) GetLevelInfo(_ context.Context, level int) *domain.LevelDefinition {
	for i := range s.levels {
		if s.levels[i].Level == level {
			return &s.levels[i]
		}
	}
	return nil
}

func (s *stubStore) GetStageInfo(_ context.Context, stage int) *domain.StageDefinition {
	return s.stages[stage]
}

func (s *stubStore) GetProject(_ context.Context, id string) *domain.ProjectDefinition {
	return s.projects[id]
}

func (s *stubStore) GetProjectsByStage(_ context.Context, stage int) []*domain.ProjectDefinition {
	return s.byStage[stage]
}

func (s *stubStore) Levels() []domain.LevelDefinition { return s.levels }

func (s *stubStore) MaxStage() int {
	max := 0
	for stage := range s.stages {
		if stage > max {
			max = stage
		}
	}
	return max
}

func newTestStore() *stubStore {
	upgrades := []*domain.UpgradeDefinition{
		{
			ID: "learn_coding", Category: domain.CategorySkills,
			BasePrice: 10, PriceMultiplier: 1.15, Currency: domain.CurrencyExperience,
			MaxLevel: 10, UnlockLevel: 1,
			Effects: []domain.Effect{{Type: domain.EffectExpPerClick, BaseValue: 1}},
		},
		{
			ID: "coffee_machine", Category: domain.CategoryEquipment,
			BasePrice: 20, PriceMultiplier: 1.2, Currency: domain.CurrencyMoney,
			MaxLevel: 5, UnlockLevel: 1,
			Effects: []domain.Effect{{Type: domain.EffectAutoExp, BaseValue: 2}},
		},
		{
			ID: "ad_network", Category: domain.CategoryEquipment,
			BasePrice: 40, PriceMultiplier: 1.2, Currency: domain.CurrencyMoney,
			MaxLevel: 5, UnlockLevel: 1,
			Effects: []domain.Effect{{Type: domain.EffectAutoMoney, BaseValue: 1}},
		},
	}
	byID := make(map[string]*domain.UpgradeDefinition, len(upgrades))
	for _, def := range upgrades {
		byID[def.ID] = def
	}

	projects := []*domain.ProjectDefinition{
		{ID: "text_adventure", Stage: 1, Name: "Text Adventure", RequiredExp: 100, BaseReward: 50},
		{ID: "platformer", Stage: 2, Name: "Platformer", RequiredExp: 800, BaseReward: 400},
	}
	projByID := make(map[string]*domain.ProjectDefinition, len(projects))
	byStage := make(map[int][]*domain.ProjectDefinition)
	for _, def := range projects {
		projByID[def.ID] = def
		byStage[def.Stage] = append(byStage[def.Stage], def)
	}

	return &stubStore{
		upgrades: byID,
		levels: []domain.LevelDefinition{
			{Level: 1, RequiredExp: 0},
			{Level: 2, RequiredExp: 100, BonusReward: 5},
			{Level: 3, RequiredExp: 250},
			{Level: 4, RequiredExp: 450},
			{Level: 5, RequiredExp: 700},
		},
		stages: map[int]*domain.StageDefinition{
			1: {Stage: 1, RequiredLevel: 1, Name: "Garage"},
			2: {Stage: 2, RequiredLevel: 3, Name: "Indie Studio"},
			3: {Stage: 3, RequiredLevel: 5, Name: "Startup Office"},
		},
		projects: projByID,
		byStage:  byStage,
	}
}

func testMilestoneConfig() *milestone.Config {
	return &milestone.Config{
		Version: "1",
		Milestones: []milestone.Definition{
			{ID: domain.MilestoneProjects, Name: "Project Board", Type: domain.MilestoneTypeFeature, RequiredLevel: 2, Announcement: "Projects unlocked!"},
			{ID: domain.MilestoneMoney, Name: "Monetization", Type: domain.MilestoneTypeCurrency, RequiredLevel: 3},
			{ID: domain.MilestoneAutoDev, Name: "Automation", Type: domain.MilestoneTypeAutomation, RequiredLevel: 4, Prerequisite: domain.MilestoneMoney},
		},
	}
}

// stubBalance counts reloads and can be told to fail.
type stubBalance struct {
	reloads int
	err     error
}

func (b *stubBalance) Reload(context.Context) error {
	if b.err != nil {
		return b.err
	}
	b.reloads++
	return nil
}

// recordingBus captures every published event for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(_ context.Context, evt event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) byType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, evt := range b.events {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

// newTestEngineAt wires an engine over real services with stub balance
// data. Engines built on the same save directory share persisted slots, so
// tests can reopen a profile the way a new process would.
func newTestEngineAt(t *testing.T, saveDir string) (*Engine, *recordingBus, *stubBalance) {
	t.Helper()

	store := newTestStore()
	bus := &recordingBus{}
	publisher, err := event.NewResilientPublisher(bus, 1, time.Millisecond, filepath.Join(t.TempDir(), "dead_letter.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = publisher.Shutdown(ctx)
	})

	milestones, err := milestone.NewService(testMilestoneConfig(), publisher)
	require.NoError(t, err)

	fileStore, err := save.NewFileStore(saveDir)
	require.NoError(t, err)

	prog := progression.NewService(store, publisher)
	balance := &stubBalance{}

	eng := NewEngine("profile-1", Deps{
		Balance:     balance,
		Progression: prog,
		Milestones:  milestones,
		Shop:        shop.NewService(store, prog, publisher),
		Saves:       save.NewManager(fileStore, publisher),
		Offline:     offline.NewCalculator(store, offline.DefaultConfig()),
		Publisher:   publisher,
		Now:         func() time.Time { return engBase },
	})
	return eng, bus, balance
}

func newTestEngine(t *testing.T) (*Engine, *recordingBus, *stubBalance) {
	t.Helper()
	return newTestEngineAt(t, t.TempDir())
}
