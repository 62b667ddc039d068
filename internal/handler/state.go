package handler

import (
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/game"
)

// StateResponse is the full player state plus the next level-up threshold
type StateResponse struct {
	Profile      string             `json:"profile"`
	State        domain.PlayerState `json:"state"`
	NextLevelExp float64            `json:"next_level_exp"`
}

// HandleGetState returns the current state for a profile
// @Summary Get player state
// @Description Return the profile's full state snapshot and the cumulative experience required for the next level
// @Tags session
// @Produce json
// @Param profile path string true "Profile ID"
// @Success 200 {object} StateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/state [get]
func HandleGetState(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		var resp StateResponse
		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			resp = StateResponse{
				Profile:      eng.ProfileID(),
				State:        eng.State(),
				NextLevelExp: eng.NextLevelExp(),
			}
			return nil
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgGetStateFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
