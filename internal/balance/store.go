package balance

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Summary reports what a load produced, for logs and the readiness probe.
type Summary struct {
	Upgrades    int       `json:"upgrades"`
	Levels      int       `json:"levels"`
	Projects    int       `json:"projects"`
	Stages      int       `json:"stages"`
	SkippedRows int       `json:"skipped_rows"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Store loads and serves the four balance tables. Lookups never panic: a
// miss returns nil (or an empty slice) after logging a warning, so a
// partially loaded data set degrades instead of crashing the engine.
//
// Definitions handed out are shared read-only snapshots. Reload builds a
// complete new snapshot and swaps it in atomically; pointers obtained
// before a reload stay valid against the old snapshot.
type Store struct {
	dir string

	mu            sync.RWMutex
	upgrades      map[string]*domain.UpgradeDefinition
	byCategory    map[string][]*domain.UpgradeDefinition
	levels        []domain.LevelDefinition
	levelByNumber map[int]*domain.LevelDefinition
	projects      map[string]*domain.ProjectDefinition
	byStage       map[int][]*domain.ProjectDefinition
	stages        map[int]*domain.StageDefinition
	maxStage      int
	summary       Summary
	loaded        bool
}

// NewStore creates a store reading tables from dir. Call Load before use.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads all balance tables from disk. Missing files and malformed
// rows degrade with warnings; only a completely empty result is an error.
func (s *Store) Load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	snap := newSnapshot()

	if err := snap.loadUpgrades(ctx, filepath.Join(s.dir, UpgradesFile)); err != nil {
		log.Warn(LogMsgTableMissing, "table", UpgradesFile, "error", err)
	}
	if err := snap.loadLevels(ctx, filepath.Join(s.dir, LevelsFile)); err != nil {
		log.Warn(LogMsgTableMissing, "table", LevelsFile, "error", err)
	}
	if err := snap.loadProjects(ctx, filepath.Join(s.dir, ProjectsFile)); err != nil {
		log.Warn(LogMsgTableMissing, "table", ProjectsFile, "error", err)
	}
	if err := snap.loadStages(ctx, filepath.Join(s.dir, StagesFile)); err != nil {
		log.Warn(LogMsgTableMissing, "table", StagesFile, "error", err)
	}

	if len(snap.upgrades) == 0 && len(snap.levels) == 0 &&
		len(snap.projects) == 0 && len(snap.stages) == 0 {
		return fmt.Errorf(ErrMsgNoTablesLoaded, s.dir)
	}

	snap.finalize()

	s.mu.Lock()
	s.upgrades = snap.upgrades
	s.byCategory = snap.byCategory
	s.levels = snap.levels
	s.levelByNumber = snap.levelByNumber
	s.projects = snap.projects
	s.byStage = snap.byStage
	s.stages = snap.stages
	s.maxStage = snap.maxStage
	s.summary = Summary{
		Upgrades:    len(snap.upgrades),
		Levels:      len(snap.levels),
		Projects:    len(snap.projects),
		Stages:      len(snap.stages),
		SkippedRows: snap.skipped,
		LoadedAt:    time.Now(),
	}
	s.loaded = true
	s.mu.Unlock()

	log.Info(LogMsgTablesLoaded,
		"upgrades", len(snap.upgrades),
		"levels", len(snap.levels),
		"projects", len(snap.projects),
		"stages", len(snap.stages),
		"skipped_rows", snap.skipped)

	return nil
}

// Reload re-reads the tables, replacing the served snapshot on success and
// keeping the old one on failure.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Loaded reports whether a load has succeeded at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Snapshot returns counts describing the currently served tables.
func (s *Store) Snapshot() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// GetUpgrade returns an upgrade definition or nil when the id is unknown.
func (s *Store) GetUpgrade(ctx context.Context, id string) *domain.UpgradeDefinition {
	s.mu.RLock()
	def, ok := s.upgrades[id]
	s.mu.RUnlock()

	if !ok {
		logger.FromContext(ctx).Warn(LogMsgLookupMiss, "table", "upgrades", "id", id)
		return nil
	}
	return def
}

// GetUpgradesByCategory returns all upgrades in a category, sorted by id.
// Unknown categories return an empty slice.
func (s *Store) GetUpgradesByCategory(ctx context.Context, category string) []*domain.UpgradeDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byCategory[category]
}

// AllUpgrades returns every upgrade definition, sorted by id.
func (s *Store) AllUpgrades(ctx context.Context) []*domain.UpgradeDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.UpgradeDefinition, 0, len(s.upgrades))
	for _, def := range s.upgrades {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetLevelInfo returns the level row or nil for levels past the table.
// Misses are a normal condition once extrapolation takes over, so they log
// at debug only.
func (s *Store) GetLevelInfo(ctx context.Context, level int) *domain.LevelDefinition {
	s.mu.RLock()
	def, ok := s.levelByNumber[level]
	s.mu.RUnlock()

	if !ok {
		logger.FromContext(ctx).Debug(LogMsgLookupMiss, "table", "levels", "level", level)
		return nil
	}
	return def
}

// Levels returns the level table sorted ascending by level. The slice is a
// shared snapshot and must not be mutated.
func (s *Store) Levels() []domain.LevelDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.levels
}

// GetProject returns a project definition or nil when the id is unknown.
func (s *Store) GetProject(ctx context.Context, id string) *domain.ProjectDefinition {
	s.mu.RLock()
	def, ok := s.projects[id]
	s.mu.RUnlock()

	if !ok {
		logger.FromContext(ctx).Warn(LogMsgLookupMiss, "table", "projects", "id", id)
		return nil
	}
	return def
}

// GetProjectsByStage returns the projects of one stage sorted by required
// experience ascending, cheapest first.
func (s *Store) GetProjectsByStage(ctx context.Context, stage int) []*domain.ProjectDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byStage[stage]
}

// GetStageInfo returns the stage row or nil past the end of the table.
// Misses log at debug; querying one stage past the last is how the stage
// loop discovers the table's end.
func (s *Store) GetStageInfo(ctx context.Context, stage int) *domain.StageDefinition {
	s.mu.RLock()
	def, ok := s.stages[stage]
	s.mu.RUnlock()

	if !ok {
		logger.FromContext(ctx).Debug(LogMsgLookupMiss, "table", "stages", "stage", stage)
		return nil
	}
	return def
}

// MaxStage returns the highest stage number present in the stage table.
func (s *Store) MaxStage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxStage
}

// snapshot accumulates one load before it is swapped into the store.
type snapshot struct {
	upgrades      map[string]*domain.UpgradeDefinition
	byCategory    map[string][]*domain.UpgradeDefinition
	levels        []domain.LevelDefinition
	levelByNumber map[int]*domain.LevelDefinition
	projects      map[string]*domain.ProjectDefinition
	byStage       map[int][]*domain.ProjectDefinition
	stages        map[int]*domain.StageDefinition
	maxStage      int
	skipped       int
}

func newSnapshot() *snapshot {
	return &snapshot{
		upgrades:      make(map[string]*domain.UpgradeDefinition),
		byCategory:    make(map[string][]*domain.UpgradeDefinition),
		levelByNumber: make(map[int]*domain.LevelDefinition),
		projects:      make(map[string]*domain.ProjectDefinition),
		byStage:       make(map[int][]*domain.ProjectDefinition),
		stages:        make(map[int]*domain.StageDefinition),
	}
}

// finalize sorts derived views once all tables are in.
func (sn *snapshot) finalize() {
	sort.Slice(sn.levels, func(i, j int) bool { return sn.levels[i].Level < sn.levels[j].Level })
	for i := range sn.levels {
		sn.levelByNumber[sn.levels[i].Level] = &sn.levels[i]
	}

	for cat := range sn.byCategory {
		list := sn.byCategory[cat]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}

	for stage := range sn.byStage {
		list := sn.byStage[stage]
		sort.Slice(list, func(i, j int) bool {
			if list[i].RequiredExp != list[j].RequiredExp {
				return list[i].RequiredExp < list[j].RequiredExp
			}
			return list[i].ID < list[j].ID
		})
	}

	for stage := range sn.stages {
		if stage > sn.maxStage {
			sn.maxStage = stage
		}
	}
}

