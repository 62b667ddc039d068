package handler

import (
	"net/http"
	"strconv"

	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/milestone"
)

// PendingMilestone is one locked milestone the profile is close to reaching
type PendingMilestone struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	RequiredLevel int    `json:"required_level,omitempty"`
	RequiredStage int    `json:"required_stage,omitempty"`
	Prerequisite  string `json:"prerequisite,omitempty"`
}

// MilestonesResponse reports unlocked milestone IDs and the upcoming ones
type MilestonesResponse struct {
	Unlocked []string           `json:"unlocked"`
	Pending  []PendingMilestone `json:"pending"`
}

// HandleGetMilestones returns unlocked and upcoming milestones for a profile
// @Summary Get milestones
// @Description Return the profile's unlocked milestones and the locked ones within reach. The within parameter widens the level horizon for pending milestones.
// @Tags session
// @Produce json
// @Param profile path string true "Profile ID"
// @Param within query int false "Level horizon for pending milestones (0 uses the default window)"
// @Success 200 {object} MilestonesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/milestones [get]
func HandleGetMilestones(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		within, err := strconv.Atoi(GetOptionalQueryParam(r, "within", "0"))
		if err != nil || within < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidWithin)
			return
		}

		var resp MilestonesResponse
		err = sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			st := eng.State()
			resp.Unlocked = st.UnlockedMilestones
			resp.Pending = toPendingMilestones(eng.PendingMilestones(within))
			return nil
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgGetMilestonesFailed, err)
			return
		}

		if resp.Unlocked == nil {
			resp.Unlocked = []string{}
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func toPendingMilestones(defs []milestone.Definition) []PendingMilestone {
	pending := make([]PendingMilestone, 0, len(defs))
	for _, def := range defs {
		pending = append(pending, PendingMilestone{
			ID:            def.ID,
			Name:          def.Name,
			Description:   def.Description,
			RequiredLevel: def.RequiredLevel,
			RequiredStage: def.RequiredStage,
			Prerequisite:  def.Prerequisite,
		})
	}
	return pending
}
