package milestone

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// Definition is one milestone gate from the config file. Zero-valued
// requirements mean "no requirement"; a milestone with none of them set
// unlocks on the first evaluation.
type Definition struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	Description   string `yaml:"description"`
	RequiredLevel int    `yaml:"required_level"`
	RequiredStage int    `yaml:"required_stage"`
	Prerequisite  string `yaml:"prerequisite"` // milestone id that must unlock first
	Announcement  string `yaml:"announcement"`
}

// Config is the parsed milestone configuration file.
type Config struct {
	Version     string       `yaml:"version"`
	Description string       `yaml:"description"`
	Milestones  []Definition `yaml:"milestones"`
}

// LoadConfig reads and parses a milestone YAML file. Call Validate before
// building a service from the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read milestone config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse milestone config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the milestone configuration for errors: empty or
// duplicate ids, prerequisites that reference nothing, negative
// requirements, and prerequisite cycles.
func (c *Config) Validate() error {
	if len(c.Milestones) == 0 {
		return fmt.Errorf("%w: no milestones defined", domain.ErrInvalidInput)
	}

	byID := make(map[string]*Definition, len(c.Milestones))
	for i := range c.Milestones {
		def := &c.Milestones[i]

		if def.ID == "" {
			return fmt.Errorf("%w: milestone at index %d has empty id", domain.ErrInvalidInput, i)
		}
		if _, exists := byID[def.ID]; exists {
			return fmt.Errorf("%w: '%s'", domain.ErrDuplicateMilestone, def.ID)
		}
		byID[def.ID] = def

		if def.Name == "" {
			return fmt.Errorf("%w: milestone '%s' has empty name", domain.ErrInvalidInput, def.ID)
		}
		if def.RequiredLevel < 0 {
			return fmt.Errorf("%w: milestone '%s' has negative required_level", domain.ErrInvalidInput, def.ID)
		}
		if def.RequiredStage < 0 {
			return fmt.Errorf("%w: milestone '%s' has negative required_stage", domain.ErrInvalidInput, def.ID)
		}
	}

	for _, def := range c.Milestones {
		if def.Prerequisite == "" {
			continue
		}
		if _, exists := byID[def.Prerequisite]; !exists {
			return fmt.Errorf("%w: milestone '%s' references prerequisite '%s'", domain.ErrUnknownRequirement, def.ID, def.Prerequisite)
		}
	}

	return detectCycles(c.Milestones, byID)
}

// detectCycles walks every prerequisite chain to make sure none loops back
// on itself. Chains are single-parent, so a simple three-state DFS does it.
func detectCycles(defs []Definition, byID map[string]*Definition) error {
	// State: 0 = unvisited, 1 = visiting, 2 = visited
	state := make(map[string]int, len(defs))

	var walk func(id string) error
	walk = func(id string) error {
		if state[id] == 1 {
			return fmt.Errorf("%w: prerequisite cycle at milestone '%s'", domain.ErrInvalidInput, id)
		}
		if state[id] == 2 {
			return nil
		}

		state[id] = 1
		if prereq := byID[id].Prerequisite; prereq != "" {
			if err := walk(prereq); err != nil {
				return err
			}
		}
		state[id] = 2
		return nil
	}

	for _, def := range defs {
		if state[def.ID] == 0 {
			if err := walk(def.ID); err != nil {
				return err
			}
		}
	}

	return nil
}
