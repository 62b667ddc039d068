package handler

import (
	"context"
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/balance"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// BalanceReloader is the slice of the balance store the admin surface needs
type BalanceReloader interface {
	Reload(ctx context.Context) error
	Snapshot() balance.Summary
}

// SessionRefresher rebuilds derived values on every resident session
type SessionRefresher interface {
	Refresh(ctx context.Context) int
}

// ReloadBalanceResponse confirms a reload and reports the loaded table sizes
type ReloadBalanceResponse struct {
	Message           string `json:"message"`
	Upgrades          int    `json:"upgrades"`
	Levels            int    `json:"levels"`
	Projects          int    `json:"projects"`
	Stages            int    `json:"stages"`
	SkippedRows       int    `json:"skipped_rows,omitempty"`
	RefreshedSessions int    `json:"refreshed_sessions"`
}

// HandleReloadBalance hot-reloads the balance tables (admin only)
// @Summary Reload balance data
// @Description Re-reads the balance workbook from disk, then re-checks milestones and rebuilds derived values on every resident session
// @Tags admin
// @Produce json
// @Success 200 {object} ReloadBalanceResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/reload-balance [post]
// @Security ApiKeyAuth
func HandleReloadBalance(store BalanceReloader, sessions SessionRefresher, publisher *event.ResilientPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		log.Info("Reloading balance data")

		if err := store.Reload(ctx); err != nil {
			log.Error("Failed to reload balance data", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgReloadBalanceFailed)
			return
		}

		summary := store.Snapshot()
		publisher.PublishWithRetry(ctx, event.NewBalanceReloadedEvent(
			summary.Upgrades, summary.Levels, summary.Projects, summary.Stages))

		// Resident sessions keep playing against the old derived values until
		// they are rebuilt here.
		refreshed := sessions.Refresh(ctx)

		log.Info("Balance data reloaded",
			"upgrades", summary.Upgrades,
			"levels", summary.Levels,
			"projects", summary.Projects,
			"stages", summary.Stages,
			"skipped_rows", summary.SkippedRows,
			"refreshed_sessions", refreshed)

		respondJSON(w, http.StatusOK, ReloadBalanceResponse{
			Message:           MsgBalanceReloadedSuccess,
			Upgrades:          summary.Upgrades,
			Levels:            summary.Levels,
			Projects:          summary.Projects,
			Stages:            summary.Stages,
			SkippedRows:       summary.SkippedRows,
			RefreshedSessions: refreshed,
		})
	}
}

// HandleResetProfile wipes a profile back to a fresh state (admin only)
// @Summary Reset profile
// @Description Reset the profile to the initial state and persist the wipe
// @Tags admin
// @Produce json
// @Param profile path string true "Profile ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/reset/{profile} [post]
// @Security ApiKeyAuth
func HandleResetProfile(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			return eng.Reset(r.Context())
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgResetFailed, err)
			return
		}

		log.Info("Profile reset", "profile_id", profileID)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgProfileResetSuccess})
	}
}
