package progression

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
)

// stubStore serves fixed balance data without touching disk.
type stubStore struct {
	upgrades map[string]*domain.UpgradeDefinition
	levels   []domain.LevelDefinition
	stages   map[int]*domain.StageDefinition
	projects map[string]*domain.ProjectDefinition
}

func (s *stubStore) GetUpgrade(_ context.Context, id string) *domain.UpgradeDefinition {
	return s.upgrades[id]
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

// newTestStore builds a ten-level table with the standard early-game curve
// and three stages at levels 1, 3 and 10.
func newTestStore() *stubStore {
	return &stubStore{
		upgrades: make(map[string]*domain.UpgradeDefinition),
		levels: []domain.LevelDefinition{
			{Level: 1, RequiredExp: 0},
			{Level: 2, RequiredExp: 100, BonusReward: 5},
			{Level: 3, RequiredExp: 250, BonusReward: 8},
			{Level: 4, RequiredExp: 475, BonusReward: 12},
			{Level: 5, RequiredExp: 800, BonusReward: 18},
			{Level: 6, RequiredExp: 1300, BonusReward: 25},
			{Level: 7, RequiredExp: 2000, BonusReward: 35},
			{Level: 8, RequiredExp: 3000, BonusReward: 50},
			{Level: 9, RequiredExp: 4400, BonusReward: 70},
			{Level: 10, RequiredExp: 6300, BonusReward: 100},
		},
		stages: map[int]*domain.StageDefinition{
			1: {Stage: 1, RequiredLevel: 1, Name: "Garage"},
			2: {Stage: 2, RequiredLevel: 3, Name: "Indie Studio"},
			3: {Stage: 3, RequiredLevel: 10, Name: "Small Company"},
		},
		projects: map[string]*domain.ProjectDefinition{
			"text_adventure": {ID: "text_adventure", Stage: 1, Name: "Text Adventure", RequiredExp: 100, BaseReward: 50},
			"platformer":     {ID: "platformer", Stage: 2, Name: "Platformer", RequiredExp: 1000, BaseReward: 500},
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

// newTestService wires a service to a stub store and a recording bus.
func newTestService(t *testing.T, store Store) (*service, *recordingBus) {
	t.Helper()

	bus := &recordingBus{}
	publisher, err := event.NewResilientPublisher(bus, 1, time.Millisecond, filepath.Join(t.TempDir(), "dead_letter.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = publisher.Shutdown(ctx)
	})

	svc := NewService(store, publisher).(*service)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc, bus
}
