// Package simulate runs scripted play sessions against an engine under a
// simulated clock. Balance tuning lives in CSV tables, and the cheapest way
// to sanity-check a table change is to replay a known timeline (click for a
// while, buy the obvious upgrades, leave overnight) and look at the curve
// that comes out.
package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/game"
)

// Clock is the simulated time source. The engine reads it through
// game.Deps.Now, so advancing it is how a script fakes absence.
type Clock struct {
	current time.Time
}

// NewClock starts a clock at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{current: start}
}

// Now returns the simulated current time.
func (c *Clock) Now() time.Time { return c.current }

// Advance moves the clock forward. Negative durations are ignored; the
// engine's offline math assumes time only moves one way.
func (c *Clock) Advance(d time.Duration) {
	if d > 0 {
		c.current = c.current.Add(d)
	}
}

// Step is one scripted action. The concrete types below are the full set;
// scripts are data, so assertions stay in the calling test.
type Step interface {
	run(ctx context.Context, r *Runner) error
	label() string
}

// Click performs Times clicks back to back.
type Click struct {
	Times int
}

func (s Click) label() string { return fmt.Sprintf("click x%d", s.Times) }

func (s Click) run(ctx context.Context, r *Runner) error {
	for i := 0; i < s.Times; i++ {
		if _, err := r.engine.PerformClick(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Buy purchases one level of an upgrade.
type Buy struct {
	UpgradeID string
}

func (s Buy) label() string { return "buy " + s.UpgradeID }

func (s Buy) run(ctx context.Context, r *Runner) error {
	_, err := r.engine.PurchaseUpgrade(ctx, s.UpgradeID)
	return err
}

// Wait advances the clock without touching the engine, modelling the player
// going away. Follow it with Settle to credit the absence.
type Wait struct {
	For time.Duration
}

func (s Wait) label() string { return "wait " + s.For.String() }

func (s Wait) run(_ context.Context, r *Runner) error {
	r.clock.Advance(s.For)
	return nil
}

// Settle applies offline progress for the time accumulated by Wait steps,
// exactly as the host does when a profile comes back.
type Settle struct{}

func (Settle) label() string { return "settle offline" }

func (Settle) run(ctx context.Context, r *Runner) error {
	report, err := r.engine.CalculateOfflineProgress(ctx)
	if err != nil {
		return err
	}
	r.lastReport = report
	return nil
}

// Script is a named sequence of steps.
type Script struct {
	Name  string
	Steps []Step
}

// StepResult captures the state snapshot after one step ran.
type StepResult struct {
	Label string
	State domain.PlayerState
}

// Result is the outcome of a full script run.
type Result struct {
	Steps   []StepResult
	Final   domain.PlayerState
	Offline *domain.OfflineReport // last Settle report, nil if none ran
}

// Runner drives one engine through scripts. Build it with New so the engine
// shares the runner's clock.
type Runner struct {
	clock      *Clock
	engine     *game.Engine
	lastReport *domain.OfflineReport
}

// New builds a runner and its engine. The deps are wired to the runner's
// clock before the engine is constructed, so every timestamp the engine
// records moves with the script.
func New(profileID string, deps game.Deps, start time.Time) *Runner {
	clock := NewClock(start)
	deps.Now = clock.Now
	return &Runner{
		clock:  clock,
		engine: game.NewEngine(profileID, deps),
	}
}

// Engine exposes the driven engine for direct inspection between runs.
func (r *Runner) Engine() *game.Engine { return r.engine }

// Clock exposes the simulated clock.
func (r *Runner) Clock() *Clock { return r.clock }

// Run executes the script in order, stopping at the first failing step.
// The partial result is returned alongside the error so a failed run still
// shows how far it got.
func (r *Runner) Run(ctx context.Context, script Script) (*Result, error) {
	result := &Result{Steps: make([]StepResult, 0, len(script.Steps))}
	for i, step := range script.Steps {
		if err := step.run(ctx, r); err != nil {
			result.Final = r.engine.State()
			result.Offline = r.lastReport
			return result, fmt.Errorf("script %q step %d (%s): %w", script.Name, i, step.label(), err)
		}
		result.Steps = append(result.Steps, StepResult{
			Label: step.label(),
			State: r.engine.State(),
		})
	}
	result.Final = r.engine.State()
	result.Offline = r.lastReport
	return result, nil
}
