package main

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/balance"
	"github.com/osse101/GameDevClicker_Go/internal/database"
	"github.com/osse101/GameDevClicker_Go/internal/database/postgres"
	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
	"github.com/osse101/GameDevClicker_Go/internal/save"
)

type SeedCommand struct{}

func (c *SeedCommand) Name() string {
	return "seed"
}

func (c *SeedCommand) Description() string {
	return "Seed demo profiles (demo, staging)"
}

// Run writes ready-made profiles through the real save pipeline. States are
// built with the progression service against the shipped balance tables, so
// levels and derived values always match whatever the tables say.
func (c *SeedCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: demo, staging")
	}
	subcmd := args[0]

	ctx := context.Background()

	store := balance.NewStore(getEnv("BALANCE_DIR", "configs/balance"))
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load balance tables: %w", err)
	}
	prog := progression.NewService(store, nil)

	slots, err := c.openSlotStore()
	if err != nil {
		return fmt.Errorf("failed to open save store: %w", err)
	}
	saves := save.NewManager(slots, nil)

	switch subcmd {
	case "demo":
		return c.seedProfiles(ctx, prog, saves, []seedProfile{
			{ID: "demo-fresh"},
			{ID: "demo-midgame", Exp: 2000, Upgrades: map[string]int{
				balance.UpgradeLearnCoding: 6,
				balance.UpgradeOnlineCourse: 2,
			}},
			{ID: "demo-endgame", Exp: 100000, Money: 5000,
				Milestones: []string{domain.MilestoneMoney, domain.MilestoneProjects,
					domain.MilestoneTeamHiring, domain.MilestoneAutoDev},
				Upgrades: map[string]int{
					balance.UpgradeLearnCoding:   15,
					balance.UpgradeBetterLaptop:  8,
					balance.UpgradeHireIntern:    4,
					balance.UpgradeCodeGenerator: 6,
				}},
		})
	case "staging":
		return c.seedProfiles(ctx, prog, saves, []seedProfile{
			{ID: "staging-demo", Exp: 2000, Upgrades: map[string]int{
				balance.UpgradeLearnCoding: 6,
			}},
		})
	default:
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}
}

// seedProfile describes one profile to write: experience and money to award
// plus upgrades and milestones to grant outright.
type seedProfile struct {
	ID         string
	Exp        float64
	Money      float64
	Upgrades   map[string]int
	Milestones []string
}

func (c *SeedCommand) seedProfiles(ctx context.Context, prog progression.Service, saves save.Service, profiles []seedProfile) error {
	for _, p := range profiles {
		st := prog.InitialState()

		if p.Exp > 0 {
			if _, err := prog.AwardExperience(ctx, p.ID, st, p.Exp, "seed"); err != nil {
				return fmt.Errorf("failed to award experience to %s: %w", p.ID, err)
			}
		}
		if p.Money > 0 {
			if err := prog.AwardMoney(ctx, p.ID, st, p.Money, "seed"); err != nil {
				return fmt.Errorf("failed to award money to %s: %w", p.ID, err)
			}
		}
		if len(p.Upgrades) > 0 || len(p.Milestones) > 0 {
			patch := progression.StatePatch{UpgradeLevels: p.Upgrades, Milestones: p.Milestones}
			if err := prog.SetPlayerData(ctx, p.ID, st, patch); err != nil {
				return fmt.Errorf("failed to apply patch to %s: %w", p.ID, err)
			}
		}
		prog.Recalculate(ctx, p.ID, st)

		if err := saves.Save(ctx, p.ID, st); err != nil {
			return fmt.Errorf("failed to save %s: %w", p.ID, err)
		}
		PrintSuccess("Seeded %s (level %d, %.0f exp, %.0f money)", p.ID, st.Level, st.Experience, st.Money)
	}
	return nil
}

func (c *SeedCommand) openSlotStore() (save.SlotStore, error) {
	backend := getEnv("SAVE_BACKEND", "file")
	switch backend {
	case "postgres":
		pool, err := database.NewPool(dbURL(), 2, 30*time.Minute, time.Hour)
		if err != nil {
			return nil, err
		}
		return postgres.NewSaveRepository(pool), nil
	case "file":
		return save.NewFileStore(getEnv("SAVE_DIR", "saves"))
	default:
		return nil, fmt.Errorf("unknown SAVE_BACKEND %q", backend)
	}
}
