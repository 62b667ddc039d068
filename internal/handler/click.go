package handler

import (
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/metrics"
	"github.com/osse101/GameDevClicker_Go/internal/progression"
)

// HandleClick applies one manual click to a profile
// @Summary Process a click
// @Description Credit one click's experience and money to the profile and apply any resulting level-ups
// @Tags session
// @Produce json
// @Param profile path string true "Profile ID"
// @Success 200 {object} progression.ClickResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Balance data not loaded or server shutting down"
// @Router /session/{profile}/click [post]
func HandleClick(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		var result *progression.ClickResult
		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			var clickErr error
			result, clickErr = eng.PerformClick(r.Context())
			return clickErr
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgClickFailed, err)
			return
		}

		metrics.ClicksTotal.Inc()
		log.Debug("Click processed",
			"profile_id", profileID,
			"exp_gained", result.ExpGained,
			"levels_gained", result.LevelsGained)

		respondJSON(w, http.StatusOK, result)
	}
}
