package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/shop"
)

// UpgradesResponse lists the purchasable upgrades for a profile
type UpgradesResponse struct {
	Upgrades []shop.CatalogEntry `json:"upgrades"`
}

// HandleGetUpgrades returns the upgrade catalog priced for a profile
// @Summary List upgrades
// @Description List upgrades with player-relative prices and availability flags, optionally filtered by category
// @Tags session
// @Produce json
// @Param profile path string true "Profile ID"
// @Param category query string false "Upgrade category filter"
// @Success 200 {object} UpgradesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/upgrades [get]
func HandleGetUpgrades(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		category := GetOptionalQueryParam(r, "category", "")

		var entries []shop.CatalogEntry
		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			entries = eng.Upgrades(r.Context(), category)
			return nil
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgGetUpgradesFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, UpgradesResponse{Upgrades: entries})
	}
}

// HandleQuoteUpgrade returns a single catalog entry for a profile
// @Summary Quote upgrade
// @Description Return one upgrade with its current price and availability for the profile
// @Tags session
// @Produce json
// @Param profile path string true "Profile ID"
// @Param upgrade_id path string true "Upgrade ID"
// @Success 200 {object} shop.CatalogEntry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown upgrade"
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/upgrades/{upgrade_id} [get]
func HandleQuoteUpgrade(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		upgradeID := chi.URLParam(r, "upgrade_id")
		if !gameIDPattern.MatchString(upgradeID) {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
			return
		}

		var entry *shop.CatalogEntry
		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			var quoteErr error
			entry, quoteErr = eng.Quote(r.Context(), upgradeID)
			return quoteErr
		})
		if err != nil {
			respondServiceError(w, r, ErrMsgQuoteFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, entry)
	}
}
