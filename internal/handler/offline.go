package handler

import (
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// OfflineResponse is the offline progression report plus the resulting state
type OfflineResponse struct {
	Report domain.OfflineReport `json:"report"`
	State  domain.PlayerState   `json:"state"`
}

// HandleOfflineProgress credits progress earned while the profile was away
// @Summary Apply offline progress
// @Description Simulate the time since the last save against the auto-income rates, capped by the offline window, and credit the result
// @Tags session
// @Produce json
// @Param profile path string true "Profile ID"
// @Success 200 {object} OfflineResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/offline [post]
func HandleOfflineProgress(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		var resp OfflineResponse
		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			report, offErr := eng.CalculateOfflineProgress(r.Context())
			if offErr != nil {
				return offErr
			}
			resp = OfflineResponse{
				Report: *report,
				State:  eng.State(),
			}
			return nil
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgOfflineFailed, err)
			return
		}

		log.Info("Offline progress applied",
			"profile_id", profileID,
			"effective", resp.Report.Effective,
			"exp_earned", resp.Report.ExpEarned,
			"money_earned", resp.Report.MoneyEarned)

		respondJSON(w, http.StatusOK, resp)
	}
}
