package shop

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
	"github.com/osse101/GameDevClicker_Go/internal/progression"
)

// stubStore serves fixed balance data. It satisfies both this package's
// Store and the progression service's, so purchases run the real
// derived-value recompute.
type stubStore struct {
	upgrades map[string]*domain.UpgradeDefinition
	levels   []domain.LevelDefinition
	stages   map[int]*domain.StageDefinition
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

func (s *stubStore) GetProject(_ context.Context, _ string) *domain.ProjectDefinition { return nil }

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
			ID: "prototype_engine", Category: domain.CategorySkills,
			BasePrice: 100, PriceMultiplier: 1.3, Currency: domain.CurrencyExperience,
			UnlockLevel: 1, // MaxLevel 0: uncapped
			Effects:     []domain.Effect{{Type: domain.EffectExpPerClick, BaseValue: 5}},
		},
		{
			ID: "better_laptop", Category: domain.CategoryEquipment,
			BasePrice: 50, PriceMultiplier: 1.2, Currency: domain.CurrencyMoney,
			MaxLevel: 5, UnlockLevel: 1,
			Effects: []domain.Effect{
				{Type: domain.EffectExpPerClick, BaseValue: 2},
				{Type: domain.EffectMoneyPerClick, BaseValue: 1},
			},
		},
		{
			ID: "quantum_compiler", Category: domain.CategoryEquipment,
			BasePrice: 5, PriceMultiplier: 1.1, Currency: domain.CurrencyMoney,
			MaxLevel: 2,
			Effects:  []domain.Effect{{Type: "focus_aura", BaseValue: 1}},
		},
		{
			ID: "conference_badge", Category: domain.CategoryEquipment,
			BasePrice: 0, PriceMultiplier: 1.5, Currency: domain.CurrencyMoney,
			MaxLevel: 1,
			Effects:  []domain.Effect{{Type: domain.EffectExpMultiplier, BaseValue: 0.05, IsMultiplier: true}},
		},
		{
			ID: "hire_intern", Category: domain.CategoryTeam,
			BasePrice: 500, PriceMultiplier: 1.25, Currency: domain.CurrencyMoney,
			MaxLevel: 3, UnlockLevel: 15, UnlockStage: 2, Prerequisite: "learn_coding",
			Effects: []domain.Effect{{Type: domain.EffectAutoExp, BaseValue: 1}},
		},
	}

	byID := make(map[string]*domain.UpgradeDefinition, len(upgrades))
	for _, def := range upgrades {
		byID[def.ID] = def
	}

	return &stubStore{
		upgrades: byID,
		levels: []domain.LevelDefinition{
			{Level: 1, RequiredExp: 0},
			{Level: 2, RequiredExp: 100, BonusReward: 5},
			{Level: 3, RequiredExp: 250, BonusReward: 8},
		},
		stages: map[int]*domain.StageDefinition{
			1: {Stage: 1, RequiredLevel: 1, Name: "Garage"},
			2: {Stage: 2, RequiredLevel: 3, Name: "Indie Studio"},
		},
	}
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

func (b *recordingBus) all() []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]event.Event(nil), b.events...)
}

// newTestService wires a shop over the real progression service so the
// post-purchase recompute is the production one.
func newTestService(t *testing.T) (Service, *recordingBus, *stubStore) {
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

	prog := progression.NewService(store, publisher)
	return NewService(store, prog, publisher), bus, store
}

func newState() *domain.PlayerState {
	return domain.NewPlayerState(time.Unix(1700000000, 0))
}
