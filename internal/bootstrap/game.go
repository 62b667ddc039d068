package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/GameDevClicker_Go/internal/balance"
	"github.com/osse101/GameDevClicker_Go/internal/config"
	"github.com/osse101/GameDevClicker_Go/internal/database"
	"github.com/osse101/GameDevClicker_Go/internal/database/postgres"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/metrics"
	"github.com/osse101/GameDevClicker_Go/internal/milestone"
	"github.com/osse101/GameDevClicker_Go/internal/offline"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
	"github.com/osse101/GameDevClicker_Go/internal/save"
	"github.com/osse101/GameDevClicker_Go/internal/scheduler"
	"github.com/osse101/GameDevClicker_Go/internal/session"
	"github.com/osse101/GameDevClicker_Go/internal/shop"
	"github.com/osse101/GameDevClicker_Go/internal/worker"
)

// WorkerQueueSize is the save job queue capacity. Sized so a full session
// cache can be evicted at once without dropping to inline saves.
const WorkerQueueSize = 256

// GameSystems holds every wired component of the game engine side: balance
// data, the domain services, persistence, and the session layer on top.
type GameSystems struct {
	Balance     *balance.Store
	Progression progression.Service
	Shop        shop.Service
	Milestones  milestone.Service
	Offline     offline.Calculator
	Saves       save.Service
	Sessions    *session.Manager
	WorkerPool  *worker.Pool
	Scheduler   *scheduler.Scheduler

	// DBPool is nil when the file backend is configured.
	DBPool *pgxpool.Pool
}

// InitializeGameSystems loads balance data and milestone gates, selects the
// save backend, builds the domain services, and stands up the session
// manager with its autosave schedule. Everything returned is ready for
// traffic; GracefulShutdown tears it down in the reverse order.
func InitializeGameSystems(ctx context.Context, cfg *config.Config, publisher *event.ResilientPublisher) (*GameSystems, error) {
	sys := &GameSystems{}

	// Balance tables. A partially loaded data set degrades with warnings;
	// only a completely empty one aborts startup.
	sys.Balance = balance.NewStore(cfg.BalanceDir)
	if err := sys.Balance.Load(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadBalanceData, err)
	}
	summary := sys.Balance.Snapshot()
	slog.Info(LogMsgBalanceDataLoaded,
		"dir", cfg.BalanceDir,
		"upgrades", summary.Upgrades,
		"levels", summary.Levels,
		"projects", summary.Projects,
		"stages", summary.Stages,
		"skipped_rows", summary.SkippedRows)

	// Milestone gates
	milestoneCfg, err := milestone.LoadConfig(cfg.MilestonesPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadMilestoneConfig, err)
	}
	sys.Milestones, err = milestone.NewService(milestoneCfg, publisher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildMilestoneGates, err)
	}
	slog.Info(LogMsgMilestoneConfigLoaded,
		"path", cfg.MilestonesPath,
		"milestones", len(milestoneCfg.Milestones))

	// Domain services over the balance tables
	sys.Progression = progression.NewService(sys.Balance, publisher)
	sys.Shop = shop.NewService(sys.Balance, sys.Progression, publisher)
	sys.Offline = offline.NewCalculator(sys.Balance, offline.Config{
		MinElapsed: time.Duration(cfg.OfflineMinSeconds) * time.Second,
		Cap:        time.Duration(cfg.OfflineCapHours * float64(time.Hour)),
		Efficiency: cfg.OfflineEfficiency,
	})

	// Persistence backend
	slotStore, err := sys.initSaveStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sys.Saves = save.NewManager(slotStore, publisher)
	slog.Info(LogMsgSaveBackendReady, "backend", cfg.SaveBackend)

	// Session layer: one engine per active profile, evictions saved on the
	// worker pool, periodic sweep as autosave.
	sys.WorkerPool = worker.NewPool(cfg.SaveWorkers, WorkerQueueSize)
	sys.WorkerPool.Start()

	factory := func(profileID string) *game.Engine {
		return game.NewEngine(profileID, game.Deps{
			Balance:     sys.Balance,
			Progression: sys.Progression,
			Milestones:  sys.Milestones,
			Shop:        sys.Shop,
			Saves:       sys.Saves,
			Offline:     sys.Offline,
			Publisher:   publisher,
		})
	}
	sys.Sessions = session.NewManager(session.Config{
		MaxSessions: cfg.SessionMax,
		TTL:         cfg.SessionTTL,
	}, factory, sys.WorkerPool)
	metrics.RegisterSessionGauge(sys.Sessions.Len)
	slog.Info(LogMsgSessionManagerReady,
		"max_sessions", cfg.SessionMax,
		"ttl", cfg.SessionTTL)

	sys.Scheduler = scheduler.New(sys.WorkerPool)
	sys.Scheduler.Schedule(JobNameAutosave, cfg.AutosaveInterval, worker.JobFunc(func(ctx context.Context) error {
		sys.Sessions.Sweep(ctx)
		return nil
	}))
	slog.Info(LogMsgAutosaveScheduled, "interval", cfg.AutosaveInterval)

	return sys, nil
}

// initSaveStore opens the configured persistence backend. The postgres
// backend connects a pool and applies the embedded schema; the file backend
// just needs its directory.
func (sys *GameSystems) initSaveStore(ctx context.Context, cfg *config.Config) (save.SlotStore, error) {
	if cfg.UsesPostgres() {
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgConnectDatabase, err)
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgApplyDatabaseSchema, err)
		}
		sys.DBPool = pool
		return postgres.NewSaveRepository(pool), nil
	}

	store, err := save.NewFileStore(cfg.SaveDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInitSaveBackend, err)
	}
	return store, nil
}
