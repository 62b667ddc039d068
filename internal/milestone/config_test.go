package milestone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

const testConfigYAML = `version: "1.0"
description: Test gates
milestones:
  - id: money
    name: Money System
    type: currency
    required_level: 10
    announcement: Money is flowing.
  - id: projects
    name: Game Projects
    type: feature
    required_stage: 2
    prerequisite: money
  - id: team_hiring
    name: Team Hiring
    type: feature
    required_level: 15
    prerequisite: money
  - id: auto_dev
    name: Automated Development
    type: automation
    required_level: 16
    prerequisite: team_hiring
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "milestones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid YAML file", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, testConfigYAML))
		require.NoError(t, err)
		assert.Equal(t, "1.0", cfg.Version)
		require.Len(t, cfg.Milestones, 4)
		assert.Equal(t, "money", cfg.Milestones[0].ID)
		assert.Equal(t, domain.MilestoneTypeCurrency, cfg.Milestones[0].Type)
		assert.Equal(t, 10, cfg.Milestones[0].RequiredLevel)
		assert.Equal(t, 0, cfg.Milestones[0].RequiredStage, "omitted requirement defaults to zero")
		assert.Equal(t, "money", cfg.Milestones[1].Prerequisite)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/milestones.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read milestone config file")
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "milestones: [\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse milestone config")
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, testConfigYAML))
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("no milestones", func(t *testing.T) {
		cfg := &Config{Version: "1.0"}
		assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)
	})

	t.Run("empty id", func(t *testing.T) {
		cfg := &Config{Milestones: []Definition{{Name: "Anonymous"}}}
		assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)
	})

	t.Run("duplicate id", func(t *testing.T) {
		cfg := &Config{Milestones: []Definition{
			{ID: "money", Name: "Money"},
			{ID: "money", Name: "Money Again"},
		}}
		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrDuplicateMilestone)
		assert.Contains(t, err.Error(), "money")
	})

	t.Run("unknown prerequisite", func(t *testing.T) {
		cfg := &Config{Milestones: []Definition{
			{ID: "projects", Name: "Projects", Prerequisite: "fame"},
		}}
		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrUnknownRequirement)
		assert.Contains(t, err.Error(), "fame")
	})

	t.Run("negative requirement", func(t *testing.T) {
		cfg := &Config{Milestones: []Definition{
			{ID: "money", Name: "Money", RequiredLevel: -1},
		}}
		assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)
	})

	t.Run("prerequisite cycle", func(t *testing.T) {
		cfg := &Config{Milestones: []Definition{
			{ID: "a", Name: "A", Prerequisite: "b"},
			{ID: "b", Name: "B", Prerequisite: "a"},
		}}
		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("self prerequisite", func(t *testing.T) {
		cfg := &Config{Milestones: []Definition{
			{ID: "a", Name: "A", Prerequisite: "a"},
		}}
		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "cycle")
	})
}

// TestLoadConfig_Shipped sanity-checks the milestone config the repo ships.
func TestLoadConfig_Shipped(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "milestones.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("shipped config not found at %s", path)
	}

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	ids := make(map[string]Definition, len(cfg.Milestones))
	for _, def := range cfg.Milestones {
		ids[def.ID] = def
	}

	money, ok := ids[domain.MilestoneMoney]
	require.True(t, ok, "the money milestone must exist, the engine gates currency on it")
	assert.Equal(t, domain.MilestoneTypeCurrency, money.Type)
	assert.Equal(t, domain.MoneyUnlockLevel, money.RequiredLevel)

	autoDev, ok := ids[domain.MilestoneAutoDev]
	require.True(t, ok, "the auto_dev milestone must exist, auto income gates on it")
	assert.Equal(t, domain.MilestoneTypeAutomation, autoDev.Type)

	assert.Contains(t, ids, domain.MilestoneProjects)
	assert.Contains(t, ids, domain.MilestoneTeamHiring)
}
