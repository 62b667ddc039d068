package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/balance"
	"github.com/osse101/GameDevClicker_Go/internal/milestone"
)

type DoctorCommand struct{}

func (c *DoctorCommand) Name() string {
	return "doctor"
}

func (c *DoctorCommand) Description() string {
	return "Diagnose environment issues (tools, data files, save backend)"
}

func (c *DoctorCommand) Run(args []string) error {
	PrintHeader("Running Doctor...")

	hasError := false
	if !c.checkTools() {
		hasError = true
	}
	if !c.checkBalanceTables() {
		hasError = true
	}
	if !c.checkMilestones() {
		hasError = true
	}
	if !c.checkSaveBackend() {
		hasError = true
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}

	PrintSuccess("All systems operational!")
	return nil
}

func (c *DoctorCommand) checkTools() bool {
	ok := true

	if version, err := getCommandOutput("go", "version"); err == nil {
		parts := strings.Fields(version)
		if len(parts) >= 3 {
			PrintSuccess("Go installed: %s", parts[2])
		} else {
			PrintSuccess("Go installed: %s", version)
		}
	} else {
		PrintError("Go not found! Install from: https://go.dev/dl/")
		ok = false
	}

	if _, err := getCommandOutput("docker", "--version"); err == nil {
		PrintSuccess("Docker installed")
	} else {
		PrintWarning("Docker not found (needed for the postgres backend via docker compose)")
	}

	if _, err := os.Stat(".env"); err == nil {
		PrintSuccess(".env present")
	} else {
		PrintWarning(".env missing; relying on process environment")
	}

	return ok
}

func (c *DoctorCommand) checkBalanceTables() bool {
	dir := getEnv("BALANCE_DIR", "configs/balance")
	store := balance.NewStore(dir)
	if err := store.Load(context.Background()); err != nil {
		PrintError("Balance tables failed to load from %s: %v", dir, err)
		return false
	}

	summary := store.Snapshot()
	if summary.SkippedRows > 0 {
		PrintWarning("Balance tables loaded with %d skipped row(s); check the server log for details", summary.SkippedRows)
	}
	PrintSuccess("Balance tables OK: %d upgrades, %d levels, %d projects, %d stages",
		summary.Upgrades, summary.Levels, summary.Projects, summary.Stages)
	return true
}

func (c *DoctorCommand) checkMilestones() bool {
	path := getEnv("MILESTONES_PATH", "configs/milestones.yaml")
	cfg, err := milestone.LoadConfig(path)
	if err != nil {
		PrintError("Milestone config failed to load from %s: %v", path, err)
		return false
	}
	if err := cfg.Validate(); err != nil {
		PrintError("Milestone config invalid: %v", err)
		return false
	}
	PrintSuccess("Milestone config OK: %d milestone(s)", len(cfg.Milestones))
	return true
}

func (c *DoctorCommand) checkSaveBackend() bool {
	backend := getEnv("SAVE_BACKEND", "file")
	switch backend {
	case "file":
		dir := getEnv("SAVE_DIR", "saves")
		probe := filepath.Join(dir, fmt.Sprintf(".doctor_%d", time.Now().UnixNano()))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			PrintError("Save directory %s not creatable: %v", dir, err)
			return false
		}
		if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
			PrintError("Save directory %s not writable: %v", dir, err)
			return false
		}
		_ = os.Remove(probe)
		PrintSuccess("Save directory %s writable", dir)
		return true
	case "postgres":
		if err := pingDB(3, time.Second); err != nil {
			PrintError("Database check failed: %v", err)
			return false
		}
		PrintSuccess("Database OK")
		return true
	default:
		PrintError("Unknown SAVE_BACKEND %q", backend)
		return false
	}
}
