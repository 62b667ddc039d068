package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/milestone"
	"github.com/osse101/GameDevClicker_Go/internal/offline"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
	"github.com/osse101/GameDevClicker_Go/internal/save"
	"github.com/osse101/GameDevClicker_Go/internal/session"
	"github.com/osse101/GameDevClicker_Go/internal/shop"
	"github.com/osse101/GameDevClicker_Go/internal/worker"
)

// stubStore serves a small balance table with thresholds sized so tests
// reach interesting states in a handful of clicks.
type stubStore struct {
	upgrades map[string]*domain.UpgradeDefinition
	levels   []domain.LevelDefinition
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
	switch stage {
	case 1:
		return &domain.StageDefinition{Stage: 1, RequiredLevel: 1, Name: "Garage"}
	case 2:
		return &domain.StageDefinition{Stage: 2, RequiredLevel: 3, Name: "Indie Studio"}
	default:
		return nil
	}
}

func (s *stubStore) GetProject(context.Context, string) *domain.ProjectDefinition { return nil }

func (s *stubStore) GetProjectsByStage(context.Context, int) []*domain.ProjectDefinition { return nil }

func (s *stubStore) Levels() []domain.LevelDefinition { return s.levels }

func (s *stubStore) MaxStage() int { return 2 }

type nullBalance struct{}

func (nullBalance) Reload(context.Context) error { return nil }

type nullBus struct{}

func (nullBus) Publish(context.Context, event.Event) error { return nil }
func (nullBus) Subscribe(event.Type, event.Handler)        {}

func newTestDeps(t *testing.T, saveDir string) game.Deps {
	t.Helper()

	store := &stubStore{
		upgrades: map[string]*domain.UpgradeDefinition{
			"learn_coding": {
				ID: "learn_coding", Category: domain.CategorySkills,
				BasePrice: 3, PriceMultiplier: 1.15, Currency: domain.CurrencyExperience,
				MaxLevel: 10, UnlockLevel: 1,
				Effects: []domain.Effect{{Type: domain.EffectExpPerClick, BaseValue: 1}},
			},
			"senior_dev": {
				ID: "senior_dev", Category: domain.CategoryTeam,
				BasePrice: 100, PriceMultiplier: 1.2, Currency: domain.CurrencyMoney,
				MaxLevel: 5, UnlockLevel: 3,
				Effects: []domain.Effect{{Type: domain.EffectAutoExp, BaseValue: 2}},
			},
		},
		levels: []domain.LevelDefinition{
			{Level: 1, RequiredExp: 0},
			{Level: 2, RequiredExp: 5},
			{Level: 3, RequiredExp: 15},
			{Level: 4, RequiredExp: 30},
		},
	}

	publisher, err := event.NewResilientPublisher(nullBus{}, 1, time.Millisecond, filepath.Join(t.TempDir(), "dead_letter.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = publisher.Shutdown(ctx)
	})

	milestones, err := milestone.NewService(&milestone.Config{
		Version: "1",
		Milestones: []milestone.Definition{
			{ID: "studio_founded", Name: "Studio Founded", Type: domain.MilestoneTypeFeature, RequiredLevel: 2, Announcement: "The studio has a name!"},
			{ID: domain.MilestoneMoney, Name: "Monetization", Type: domain.MilestoneTypeCurrency, RequiredLevel: 3},
		},
	}, publisher)
	require.NoError(t, err)

	fileStore, err := save.NewFileStore(saveDir)
	require.NoError(t, err)

	prog := progression.NewService(store, publisher)
	return game.Deps{
		Balance:     nullBalance{},
		Progression: prog,
		Milestones:  milestones,
		Shop:        shop.NewService(store, prog, publisher),
		Saves:       save.NewManager(fileStore, publisher),
		Offline:     offline.NewCalculator(store, offline.DefaultConfig()),
		Publisher:   publisher,
	}
}

// newTestServer wires the handlers onto a router exactly as the server
// package mounts them, backed by a real session manager over stub balance
// data and a file save store in saveDir.
func newTestServer(t *testing.T, saveDir string) (*chi.Mux, *session.Manager) {
	t.Helper()

	deps := newTestDeps(t, saveDir)
	pool := worker.NewPool(2, 16)
	pool.Start()
	t.Cleanup(pool.Stop)

	mgr := session.NewManager(session.Config{MaxSessions: 8, TTL: time.Hour}, func(profileID string) *game.Engine {
		return game.NewEngine(profileID, deps)
	}, pool)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = mgr.Close(ctx)
	})

	r := chi.NewRouter()
	r.Route("/session/{profile}", func(r chi.Router) {
		r.Post("/click", HandleClick(mgr))
		r.Post("/purchase", HandlePurchase(mgr))
		r.Get("/state", HandleGetState(mgr))
		r.Get("/upgrades", HandleGetUpgrades(mgr))
		r.Get("/upgrades/{upgrade_id}", HandleQuoteUpgrade(mgr))
		r.Get("/milestones", HandleGetMilestones(mgr))
		r.Post("/save", HandleSave(mgr))
		r.Post("/player", HandleSetPlayerData(mgr))
		r.Post("/offline", HandleOfflineProgress(mgr))
	})
	r.Post("/admin/reset/{profile}", HandleResetProfile(mgr))

	return r, mgr
}

func doJSON(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "response body: %s", w.Body.String())
	return out
}

// clickTimes drives n clicks through the session manager directly, outside
// the HTTP layer, to set up state for a request under test.
func clickTimes(t *testing.T, mgr *session.Manager, profileID string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, mgr.WithSession(ctx, profileID, func(eng *game.Engine) error {
			_, err := eng.PerformClick(ctx)
			return err
		}))
	}
}
