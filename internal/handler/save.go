package handler

import (
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// HandleSave persists a profile's state immediately
// @Summary Save game
// @Description Write the profile's current state to the save backend, backing up the previous save first
// @Tags session
// @Produce json
// @Param profile path string true "Profile ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/save [post]
func HandleSave(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			return eng.Save(r.Context())
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgSaveFailed, err)
			return
		}

		log.Info("Game saved", "profile_id", profileID)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGameSavedSuccess})
	}
}
