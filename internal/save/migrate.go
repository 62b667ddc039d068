package save

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

// stateV1 is the shape of version 1 saves, from before the money and
// experience tracks were split. A single click power and a single auto
// income rate covered both.
type stateV1 struct {
	Money              float64            `json:"money"`
	Experience         float64            `json:"experience"`
	Level              int                `json:"level"`
	Stage              int                `json:"stage"`
	ClickPower         float64            `json:"click_power"`
	AutoIncome         float64            `json:"auto_income"`
	UpgradeLevels      map[string]int     `json:"upgrade_levels"`
	UnlockedMilestones []string           `json:"unlocked_milestones"`
	CompletedProjects  []string           `json:"completed_projects"`
	Stats              domain.PlayerStats `json:"stats"`
	FirstPlayedAt      time.Time          `json:"first_played_at"`
	LastSavedAt        time.Time          `json:"last_saved_at"`
	LastPlayedAt       time.Time          `json:"last_played_at"`
}

// decodeState turns an envelope's raw state into a PlayerState, running
// the migration chain for old versions. Future versions decode best-effort
// with a warning; fields this build does not know default to zero and a
// later recompute fills the derived ones.
func decodeState(env *Envelope, log *slog.Logger) (st *domain.PlayerState, migrated bool, err error) {
	switch {
	case env.Version == domain.SaveVersionCurrent:
		st = &domain.PlayerState{}
		if err := json.Unmarshal(env.State, st); err != nil {
			return nil, false, fmt.Errorf("%s: %w", ErrMsgStateDecode, err)
		}

	case env.Version == 1:
		var v1 stateV1
		if err := json.Unmarshal(env.State, &v1); err != nil {
			return nil, false, fmt.Errorf("%s: %w", ErrMsgStateDecode, err)
		}
		st = migrateV1(&v1)
		migrated = true
		log.Info(LogMsgMigrated, "from_version", 1, "to_version", domain.SaveVersionCurrent)

	case env.Version > domain.SaveVersionCurrent:
		st = &domain.PlayerState{}
		if err := json.Unmarshal(env.State, st); err != nil {
			return nil, false, fmt.Errorf("%s: %w", ErrMsgStateDecode, err)
		}
		log.Warn(LogMsgFutureVersion, "save_version", env.Version, "supported_version", domain.SaveVersionCurrent)

	default:
		return nil, false, fmt.Errorf("%w: %d", domain.ErrUnsupportedSaveVersion, env.Version)
	}

	normalize(st)
	return st, migrated, nil
}

// migrateV1 splits the legacy combined click power and auto income into
// the money and experience tracks. The money share only materializes when
// money generation was already unlocked at save time; otherwise the save
// predates the unlock and the money track starts at zero.
func migrateV1(v1 *stateV1) *domain.PlayerState {
	moneyUnlocked := slices.Contains(v1.UnlockedMilestones, domain.MilestoneMoney) ||
		v1.Level >= domain.MoneyUnlockLevel

	st := &domain.PlayerState{
		Money:              v1.Money,
		Experience:         v1.Experience,
		Level:              v1.Level,
		Stage:              v1.Stage,
		ExpPerClick:        v1.ClickPower,
		AutoExpRate:        v1.AutoIncome,
		UpgradeLevels:      v1.UpgradeLevels,
		UnlockedMilestones: v1.UnlockedMilestones,
		CompletedProjects:  v1.CompletedProjects,
		Stats:              v1.Stats,
		FirstPlayedAt:      v1.FirstPlayedAt,
		LastSavedAt:        v1.LastSavedAt,
		LastPlayedAt:       v1.LastPlayedAt,
	}
	if moneyUnlocked {
		st.MoneyPerClick = v1.ClickPower * domain.LegacyMoneyPerClickRatio
		st.AutoMoneyRate = v1.AutoIncome * domain.LegacyAutoMoneyRatio
	}
	return st
}

// normalize repairs structural gaps in a decoded state so the rest of the
// engine never sees nil maps or sub-starting levels.
func normalize(st *domain.PlayerState) {
	if st.Level < domain.StartingLevel {
		st.Level = domain.StartingLevel
	}
	if st.Stage < domain.StartingStage {
		st.Stage = domain.StartingStage
	}
	if st.UpgradeLevels == nil {
		st.UpgradeLevels = make(map[string]int)
	}
	if st.CurrencyMultipliers == nil {
		st.CurrencyMultipliers = map[string]float64{
			domain.MultiplierMoney: 1.0,
			domain.MultiplierExp:   1.0,
			domain.MultiplierAll:   1.0,
		}
	}
}
