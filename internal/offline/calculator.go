package offline

import (
	"context"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Store is the slice of balance data the calculator reads.
type Store interface {
	GetProjectsByStage(ctx context.Context, stage int) []*domain.ProjectDefinition
}

// Calculator estimates the progress a player earned between their last save
// and now. Calculate only computes; applying the report to player state is
// the engine's job, so a report can be previewed or discarded without
// touching the player.
type Calculator interface {
	Calculate(ctx context.Context, st *domain.PlayerState, lastSave, now time.Time) *domain.OfflineReport
	Shutdown(ctx context.Context) error
}

type calculator struct {
	store Store
	cfg   Config
}

// NewCalculator creates a new offline calculator. Out-of-range config
// values fall back to the defaults.
func NewCalculator(store Store, cfg Config) Calculator {
	return &calculator{store: store, cfg: cfg.normalized()}
}

// Calculate builds an offline report for the gap between lastSave and now.
// Elapsed records the real absence; Effective is the credited time after
// the cap and the efficiency factor, and all earnings derive from it. Auto
// experience always accrues; auto money additionally requires the money
// milestone.
func (c *calculator) Calculate(ctx context.Context, st *domain.PlayerState, lastSave, now time.Time) *domain.OfflineReport {
	report := &domain.OfflineReport{}

	elapsed := now.Sub(lastSave)
	if elapsed < 0 {
		// Clock went backwards; credit nothing rather than guess.
		elapsed = 0
	}
	report.Elapsed = elapsed

	if elapsed < c.cfg.MinElapsed {
		return report
	}

	credited := elapsed
	if credited > c.cfg.Cap {
		credited = c.cfg.Cap
		report.Capped = true
	}

	effSeconds := credited.Seconds() * c.cfg.Efficiency
	report.Effective = time.Duration(effSeconds * float64(time.Second))

	report.ExpEarned = st.AutoExpRate * effSeconds
	if st.HasMilestone(domain.MilestoneMoney) {
		report.MoneyEarned = st.AutoMoneyRate * effSeconds
	}

	report.Projects = c.simulateProjects(ctx, st, report.ExpEarned)

	logger.FromContext(ctx).Debug(LogMsgReportComputed,
		"elapsed", report.Elapsed,
		"effective", report.Effective,
		"capped", report.Capped,
		"exp_earned", report.ExpEarned,
		"money_earned", report.MoneyEarned,
		"projects", len(report.Projects))
	return report
}

// simulateProjects estimates which projects the accrued experience would
// have covered. Candidates are the current stage's projects the player has
// not completed yet, cheapest first; each simulated completion grows that
// project's requirement by the standard growth factor, so the pool
// eventually affords nothing and the loop ends. Experience gates projects
// rather than being spent by them, so the pool is matched, not consumed.
func (c *calculator) simulateProjects(ctx context.Context, st *domain.PlayerState, pool float64) []domain.OfflineProjectResult {
	if pool <= 0 {
		return nil
	}

	type candidate struct {
		def         *domain.ProjectDefinition
		requirement float64
	}
	var candidates []candidate
	for _, def := range c.store.GetProjectsByStage(ctx, st.Stage) {
		if st.HasCompletedProject(def.ID) || def.RequiredExp <= 0 {
			continue
		}
		candidates = append(candidates, candidate{def: def, requirement: def.RequiredExp})
	}

	var results []domain.OfflineProjectResult
	for {
		best := -1
		for i := range candidates {
			if best == -1 || candidates[i].requirement < candidates[best].requirement {
				best = i
			}
		}
		if best == -1 || candidates[best].requirement > pool {
			break
		}
		def := candidates[best].def
		results = append(results, domain.OfflineProjectResult{
			ProjectID: def.ID,
			Name:      def.Name,
			Reward:    def.BaseReward,
		})
		candidates[best].requirement *= domain.ProjectRequirementGrowth
	}
	return results
}

// Shutdown gracefully shuts down the offline calculator. Calculation is
// synchronous and stateless, so there is nothing to wait for.
func (c *calculator) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info("Offline calculator shutdown complete")
	return nil
}
