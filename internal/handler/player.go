package handler

import (
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
)

// PlayerUpdateResponse confirms an override and returns the resulting state
type PlayerUpdateResponse struct {
	Message string             `json:"message"`
	State   domain.PlayerState `json:"state"`
}

// HandleSetPlayerData force-applies an override to a profile's state
// @Summary Set player data
// @Description Apply an override patch to the profile (money, experience, level, stage, upgrades, milestones) and re-run the level and stage loops
// @Tags session
// @Accept json
// @Produce json
// @Param profile path string true "Profile ID"
// @Param request body progression.StatePatch true "Fields to override"
// @Success 200 {object} PlayerUpdateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/player [post]
func HandleSetPlayerData(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		var patch progression.StatePatch
		if err := DecodeAndValidateRequest(r, w, &patch, "Set player data"); err != nil {
			return
		}

		var resp PlayerUpdateResponse
		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			if err := eng.SetPlayerData(r.Context(), patch); err != nil {
				return err
			}
			resp = PlayerUpdateResponse{
				Message: MsgPlayerUpdatedSuccess,
				State:   eng.State(),
			}
			return nil
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgUpdatePlayerFailed, err)
			return
		}

		log.Info("Player data updated", "profile_id", profileID)
		respondJSON(w, http.StatusOK, resp)
	}
}
