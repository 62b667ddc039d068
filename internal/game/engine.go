package game

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/milestone"
	"github.com/osse101/GameDevClicker_Go/internal/offline"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
	"github.com/osse101/GameDevClicker_Go/internal/save"
	"github.com/osse101/GameDevClicker_Go/internal/shop"
)

// BalanceData is the slice of the balance layer the engine touches
// directly; all lookups go through the services.
type BalanceData interface {
	Reload(ctx context.Context) error
}

// Deps bundles the services an engine drives. Everything except Publisher
// and Now is required; Now defaults to time.Now and exists so tests and the
// simulation runner can drive the clock.
type Deps struct {
	Balance     BalanceData
	Progression progression.Service
	Milestones  milestone.Service
	Shop        shop.Service
	Saves       save.Service
	Offline     offline.Calculator
	Publisher   *event.ResilientPublisher
	Now         func() time.Time
}

// Engine drives a single player profile: it owns the profile's in-memory
// state and funnels every mutation through the underlying services in the
// right order. The engine does no locking; the session layer serializes
// access per profile.
type Engine struct {
	profileID string
	st        *domain.PlayerState
	deps      Deps

	now func() time.Time
}

// NewEngine creates an engine for one profile, starting from a fresh
// initial state. Call Load to replace it with saved progress.
func NewEngine(profileID string, deps Deps) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		profileID: profileID,
		st:        deps.Progression.InitialState(),
		deps:      deps,
		now:       now,
	}
}

// ProfileID returns the profile this engine drives.
func (e *Engine) ProfileID() string { return e.profileID }

// State returns a deep copy of the player state for read-only callers.
func (e *Engine) State() domain.PlayerState { return *e.st.Clone() }

// NextLevelExp returns the cumulative experience the next level requires.
func (e *Engine) NextLevelExp() float64 { return e.deps.Progression.NextLevelExp(e.st) }

// PendingMilestones lists locked milestones within reach of the current
// state. withinLevels below one uses the default window.
func (e *Engine) PendingMilestones(withinLevels int) []milestone.Definition {
	return e.deps.Milestones.PendingSoon(e.st, withinLevels)
}

// Load replaces the engine's state with the profile's saved progress.
// Saved derived values are treated as a cache: the milestone gates are
// re-checked and the click/auto values rebuilt against the tables actually
// loaded. Offline catch-up is a separate step so the host decides when the
// player sees it.
func (e *Engine) Load(ctx context.Context) (*save.LoadResult, error) {
	result, err := e.deps.Saves.Load(ctx, e.profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadProfile, err)
	}
	e.st = result.State

	e.deps.Milestones.CheckAll(ctx, e.profileID, e.st)
	e.deps.Progression.Recalculate(ctx, e.profileID, e.st)

	logger.FromContext(ctx).Info(LogMsgSessionLoaded,
		"profile_id", e.profileID,
		"fresh", result.Fresh,
		"migrated", result.Migrated,
		"from_backup", result.FromBackup,
		"level", e.st.Level)
	return result, nil
}

// PerformClick applies one click and settles any unlocks it caused.
func (e *Engine) PerformClick(ctx context.Context) (*progression.ClickResult, error) {
	result, err := e.deps.Progression.Click(ctx, e.profileID, e.st)
	if err != nil {
		return nil, err
	}
	e.st.LastPlayedAt = e.now()
	e.afterMutation(ctx)
	return result, nil
}

// PurchaseUpgrade buys one level of an upgrade through the shop and settles
// any unlocks the purchase caused.
func (e *Engine) PurchaseUpgrade(ctx context.Context, upgradeID string) (*shop.PurchaseResult, error) {
	result, err := e.deps.Shop.Purchase(ctx, e.profileID, e.st, upgradeID)
	if err != nil {
		return nil, err
	}
	e.st.LastPlayedAt = e.now()
	e.afterMutation(ctx)
	return result, nil
}

// Quote prices an upgrade against the current state without mutating it.
func (e *Engine) Quote(ctx context.Context, upgradeID string) (*shop.CatalogEntry, error) {
	return e.deps.Shop.Quote(ctx, e.st, upgradeID)
}

// Upgrades lists the catalog, optionally filtered by category.
func (e *Engine) Upgrades(ctx context.Context, category string) []shop.CatalogEntry {
	return e.deps.Shop.Catalog(ctx, e.st, category)
}

// SetPlayerData force-applies an admin override, then re-checks gates and
// rebuilds the derived values against the patched state.
func (e *Engine) SetPlayerData(ctx context.Context, patch progression.StatePatch) error {
	if err := e.deps.Progression.SetPlayerData(ctx, e.profileID, e.st, patch); err != nil {
		return err
	}
	e.st.LastPlayedAt = e.now()
	e.deps.Milestones.CheckAll(ctx, e.profileID, e.st)
	e.deps.Progression.Recalculate(ctx, e.profileID, e.st)
	return nil
}

// Save persists the current state through the save manager.
func (e *Engine) Save(ctx context.Context) error {
	return e.deps.Saves.Save(ctx, e.profileID, e.st)
}

// Reset wipes the profile's save slots and replaces the state wholesale
// with a fresh one.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.deps.Saves.Reset(ctx, e.profileID); err != nil {
		return err
	}
	e.st = e.deps.Progression.InitialState()
	e.afterMutation(ctx)
	logger.FromContext(ctx).Info(LogMsgProfileReset, "profile_id", e.profileID)
	return nil
}

// CalculateOfflineProgress settles the time since the profile last played.
// The report is computed first, then applied through the progression
// service so level-ups, stage advances and milestone cascades fire exactly
// as they would for live play. A zero report applies nothing and emits
// nothing, so calling this repeatedly is safe.
func (e *Engine) CalculateOfflineProgress(ctx context.Context) (*domain.OfflineReport, error) {
	now := e.now()
	anchor := e.st.LastPlayedAt
	if anchor.IsZero() {
		anchor = now
	}

	report := e.deps.Offline.Calculate(ctx, e.st, anchor, now)
	e.st.LastPlayedAt = now
	if report.IsZero() {
		return report, nil
	}

	if report.ExpEarned > 0 {
		if _, err := e.deps.Progression.AwardExperience(ctx, e.profileID, e.st, report.ExpEarned, progression.SourceOffline); err != nil {
			return nil, err
		}
	}
	if report.MoneyEarned > 0 {
		if err := e.deps.Progression.AwardMoney(ctx, e.profileID, e.st, report.MoneyEarned, progression.SourceOffline); err != nil {
			return nil, err
		}
	}
	for _, p := range report.Projects {
		if _, err := e.deps.Progression.CompleteProject(ctx, e.profileID, e.st, p.ProjectID, progression.SourceOffline); err != nil {
			// The simulation ran against a snapshot; a project that no
			// longer passes its gate is skipped, not fatal.
			logger.FromContext(ctx).Warn(LogMsgOfflineProjectSkipped,
				"profile_id", e.profileID,
				"project_id", p.ProjectID,
				"error", err)
		}
	}

	e.afterMutation(ctx)
	e.publish(ctx, event.NewOfflineProgressEvent(e.profileID, report))
	logger.FromContext(ctx).Info(LogMsgOfflineApplied,
		"profile_id", e.profileID,
		"elapsed", report.Elapsed,
		"exp_earned", report.ExpEarned,
		"money_earned", report.MoneyEarned,
		"projects", len(report.Projects),
		"capped", report.Capped)
	return report, nil
}

// LoadBalanceData reloads the balance tables and rebuilds this profile's
// derived values against them.
func (e *Engine) LoadBalanceData(ctx context.Context) error {
	if err := e.deps.Balance.Reload(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgReloadBalance, err)
	}
	e.RefreshDerived(ctx)
	logger.FromContext(ctx).Info(LogMsgBalanceReloaded, "profile_id", e.profileID)
	return nil
}

// RefreshDerived re-checks the milestone gates and rebuilds the derived
// values against the currently loaded balance tables. A reload can open
// gates (a lowered requirement) but never re-locks what is already unlocked.
func (e *Engine) RefreshDerived(ctx context.Context) {
	e.deps.Milestones.CheckAll(ctx, e.profileID, e.st)
	e.deps.Progression.Recalculate(ctx, e.profileID, e.st)
}

// afterMutation runs the bookkeeping every state change ends with:
// milestone gates re-checked, and derived values rebuilt when a new unlock
// could have changed them.
func (e *Engine) afterMutation(ctx context.Context) {
	unlocked := e.deps.Milestones.CheckAll(ctx, e.profileID, e.st)
	if len(unlocked) > 0 {
		e.deps.Progression.Recalculate(ctx, e.profileID, e.st)
	}
}

func (e *Engine) publish(ctx context.Context, evt event.Event) {
	if e.deps.Publisher != nil {
		e.deps.Publisher.PublishWithRetry(ctx, evt)
	}
}
