package balance

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// Package-level validator for row structs. Rows failing validation are
// skipped, not fatal; the engine runs degraded on whatever rows survive.
var validate = validator.New()

// table is one parsed CSV file: a header index plus data rows.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

// readTable parses a CSV file with a header row. Lines starting with # are
// comments. Rows may have trailing columns missing; lookups treat absent
// cells as empty.
func readTable(path, name string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadTableFailed, name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadTableFailed, name, err)
	}
	if len(records) == 0 {
		return &table{name: name, columns: map[string]int{}}, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf(ErrMsgMissingHeader, name, col)
		}
	}

	return &table{name: name, columns: columns, rows: records[1:]}, nil
}

// cell returns a trimmed cell by column name, empty when absent.
func (t *table) cell(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) floatCell(row []string, column string) (float64, error) {
	raw := t.cell(row, column)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	return v, nil
}

func (t *table) intCell(row []string, column string) (int, error) {
	raw := t.cell(row, column)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	return v, nil
}

// upgradeRow carries validation tags for one row of the upgrade table.
type upgradeRow struct {
	ID          string  `validate:"required"`
	Category    string  `validate:"required"`
	BasePrice   float64 `validate:"gte=0"`
	Currency    string  `validate:"omitempty,oneof=money exp"`
	MaxLevel    int     `validate:"gte=0"`
	UnlockLevel int     `validate:"gte=0"`
	UnlockStage int     `validate:"gte=0"`
}

func (sn *snapshot) loadUpgrades(ctx context.Context, path string) error {
	log := logger.FromContext(ctx)

	t, err := readTable(path, UpgradesFile, "id", "category", "base_price")
	if err != nil {
		return err
	}

	for i, row := range t.rows {
		def, err := t.parseUpgrade(row)
		if err != nil {
			log.Warn(LogMsgRowSkipped, "table", UpgradesFile, "row", i+2, "error", err)
			sn.skipped++
			continue
		}
		if _, dup := sn.upgrades[def.ID]; dup {
			log.Warn(LogMsgDuplicateID, "table", UpgradesFile, "id", def.ID)
		}
		sn.upgrades[def.ID] = def
	}

	// Category views are rebuilt from scratch so duplicate rows cannot
	// leave stale entries behind.
	for _, def := range sn.upgrades {
		sn.byCategory[def.Category] = append(sn.byCategory[def.Category], def)
	}

	return nil
}

func (t *table) parseUpgrade(row []string) (*domain.UpgradeDefinition, error) {
	basePrice, err := t.floatCell(row, "base_price")
	if err != nil {
		return nil, err
	}
	priceMult, err := t.floatCell(row, "price_multiplier")
	if err != nil {
		return nil, err
	}
	maxLevel, err := t.intCell(row, "max_level")
	if err != nil {
		return nil, err
	}
	unlockLevel, err := t.intCell(row, "unlock_level")
	if err != nil {
		return nil, err
	}
	unlockStage, err := t.intCell(row, "unlock_stage")
	if err != nil {
		return nil, err
	}

	r := upgradeRow{
		ID:          t.cell(row, "id"),
		Category:    t.cell(row, "category"),
		BasePrice:   basePrice,
		Currency:    t.cell(row, "currency"),
		MaxLevel:    maxLevel,
		UnlockLevel: unlockLevel,
		UnlockStage: unlockStage,
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}

	effects, err := ParseEffects(t.cell(row, "effects"))
	if err != nil {
		return nil, err
	}

	currency := r.Currency
	if currency == "" {
		currency = domain.CurrencyMoney
	}

	return &domain.UpgradeDefinition{
		ID:              r.ID,
		Category:        r.Category,
		Name:            t.cell(row, "name"),
		Description:     t.cell(row, "description"),
		BasePrice:       r.BasePrice,
		PriceMultiplier: priceMult,
		Currency:        currency,
		MaxLevel:        r.MaxLevel,
		UnlockLevel:     r.UnlockLevel,
		UnlockStage:     r.UnlockStage,
		Prerequisite:    t.cell(row, "prerequisite"),
		Effects:         effects,
	}, nil
}

// ParseEffects parses the effects cell micro-format. Each entry is
// `type:base` with an optional trailing `:mult` marker. Effect types ending
// in "multiplier" are treated as multiplicative even without the marker.
func ParseEffects(raw string) ([]domain.Effect, error) {
	if raw == "" {
		return nil, nil
	}

	var effects []domain.Effect
	for _, part := range strings.Split(raw, EffectSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Split(part, EffectFieldSeparator)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed effect %q", part)
		}

		effectType := strings.TrimSpace(fields[0])
		if effectType == "" {
			return nil, fmt.Errorf("malformed effect %q: empty type", part)
		}

		base, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("malformed effect %q: %w", part, err)
		}

		isMult := strings.HasSuffix(effectType, MultiplierTypeSuffix)
		if len(fields) > 2 && strings.TrimSpace(fields[2]) == EffectMultiplierFlag {
			isMult = true
		}

		effects = append(effects, domain.Effect{
			Type:         effectType,
			BaseValue:    base,
			IsMultiplier: isMult,
		})
	}

	return effects, nil
}

// levelRow carries validation tags for one row of the level table.
type levelRow struct {
	Level       int     `validate:"gte=1"`
	RequiredExp float64 `validate:"gte=0"`
}

func (sn *snapshot) loadLevels(ctx context.Context, path string) error {
	log := logger.FromContext(ctx)

	t, err := readTable(path, LevelsFile, "level", "required_exp")
	if err != nil {
		return err
	}

	seen := make(map[int]bool)
	for i, row := range t.rows {
		def, err := t.parseLevel(row)
		if err != nil {
			log.Warn(LogMsgRowSkipped, "table", LevelsFile, "row", i+2, "error", err)
			sn.skipped++
			continue
		}
		if seen[def.Level] {
			log.Warn(LogMsgDuplicateID, "table", LevelsFile, "level", def.Level)
			for j := range sn.levels {
				if sn.levels[j].Level == def.Level {
					sn.levels[j] = *def
				}
			}
			continue
		}
		seen[def.Level] = true
		sn.levels = append(sn.levels, *def)
	}

	return nil
}

func (t *table) parseLevel(row []string) (*domain.LevelDefinition, error) {
	level, err := t.intCell(row, "level")
	if err != nil {
		return nil, err
	}
	requiredExp, err := t.floatCell(row, "required_exp")
	if err != nil {
		return nil, err
	}
	moneyMult, err := t.floatCell(row, "money_multiplier")
	if err != nil {
		return nil, err
	}
	bonus, err := t.floatCell(row, "bonus_reward")
	if err != nil {
		return nil, err
	}

	r := levelRow{Level: level, RequiredExp: requiredExp}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}

	return &domain.LevelDefinition{
		Level:           level,
		RequiredExp:     requiredExp,
		MoneyMultiplier: moneyMult,
		BonusReward:     bonus,
		UnlockTag:       t.cell(row, "unlock_tag"),
	}, nil
}

// projectRow carries validation tags for one row of the project table.
type projectRow struct {
	ID          string  `validate:"required"`
	Stage       int     `validate:"gte=1"`
	RequiredExp float64 `validate:"gt=0"`
	BaseReward  float64 `validate:"gte=0"`
}

func (sn *snapshot) loadProjects(ctx context.Context, path string) error {
	log := logger.FromContext(ctx)

	t, err := readTable(path, ProjectsFile, "id", "stage", "required_exp")
	if err != nil {
		return err
	}

	for i, row := range t.rows {
		def, err := t.parseProject(row)
		if err != nil {
			log.Warn(LogMsgRowSkipped, "table", ProjectsFile, "row", i+2, "error", err)
			sn.skipped++
			continue
		}
		if _, dup := sn.projects[def.ID]; dup {
			log.Warn(LogMsgDuplicateID, "table", ProjectsFile, "id", def.ID)
		}
		sn.projects[def.ID] = def
	}

	for _, def := range sn.projects {
		sn.byStage[def.Stage] = append(sn.byStage[def.Stage], def)
	}

	return nil
}

func (t *table) parseProject(row []string) (*domain.ProjectDefinition, error) {
	stage, err := t.intCell(row, "stage")
	if err != nil {
		return nil, err
	}
	requiredExp, err := t.floatCell(row, "required_exp")
	if err != nil {
		return nil, err
	}
	baseReward, err := t.floatCell(row, "base_reward")
	if err != nil {
		return nil, err
	}
	hours, err := t.floatCell(row, "completion_hours")
	if err != nil {
		return nil, err
	}

	r := projectRow{
		ID:          t.cell(row, "id"),
		Stage:       stage,
		RequiredExp: requiredExp,
		BaseReward:  baseReward,
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}

	return &domain.ProjectDefinition{
		ID:              r.ID,
		Stage:           stage,
		Name:            t.cell(row, "name"),
		RequiredExp:     requiredExp,
		BaseReward:      baseReward,
		CompletionHours: hours,
	}, nil
}

// stageRow carries validation tags for one row of the stage table.
type stageRow struct {
	Stage         int `validate:"gte=1"`
	RequiredLevel int `validate:"gte=0"`
}

func (sn *snapshot) loadStages(ctx context.Context, path string) error {
	log := logger.FromContext(ctx)

	t, err := readTable(path, StagesFile, "stage", "required_level")
	if err != nil {
		return err
	}

	for i, row := range t.rows {
		def, err := t.parseStage(row)
		if err != nil {
			log.Warn(LogMsgRowSkipped, "table", StagesFile, "row", i+2, "error", err)
			sn.skipped++
			continue
		}
		if _, dup := sn.stages[def.Stage]; dup {
			log.Warn(LogMsgDuplicateID, "table", StagesFile, "stage", def.Stage)
		}
		sn.stages[def.Stage] = def
	}

	return nil
}

func (t *table) parseStage(row []string) (*domain.StageDefinition, error) {
	stage, err := t.intCell(row, "stage")
	if err != nil {
		return nil, err
	}
	requiredLevel, err := t.intCell(row, "required_level")
	if err != nil {
		return nil, err
	}

	r := stageRow{Stage: stage, RequiredLevel: requiredLevel}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}

	return &domain.StageDefinition{
		Stage:         stage,
		RequiredLevel: requiredLevel,
		Name:          t.cell(row, "name"),
	}, nil
}
