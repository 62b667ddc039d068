package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/metrics"
	"github.com/osse101/GameDevClicker_Go/internal/shop"
)

// PurchaseRequest is the request body for buying one upgrade level
type PurchaseRequest struct {
	UpgradeID string `json:"upgrade_id" validate:"required,gameid"`
}

// HandlePurchase buys one level of an upgrade for a profile
// @Summary Purchase upgrade
// @Description Buy the next level of an upgrade; the price is deducted and derived values are recomputed
// @Tags session
// @Accept json
// @Produce json
// @Param profile path string true "Profile ID"
// @Param request body PurchaseRequest true "Upgrade to buy"
// @Success 200 {object} shop.PurchaseResult
// @Failure 400 {object} ErrorResponse "Max level reached or not enough money"
// @Failure 403 {object} ErrorResponse "Upgrade locked"
// @Failure 404 {object} ErrorResponse "Unknown upgrade"
// @Failure 503 {object} ErrorResponse
// @Router /session/{profile}/purchase [post]
func HandlePurchase(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}

		var req PurchaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Purchase upgrade"); err != nil {
			return
		}

		var result *shop.PurchaseResult
		err := sessions.WithSession(r.Context(), profileID, func(eng *game.Engine) error {
			var purchaseErr error
			result, purchaseErr = eng.PurchaseUpgrade(r.Context(), req.UpgradeID)
			return purchaseErr
		})

		// Every attempt that reached the engine is counted, labeled by outcome.
		metrics.PurchasesTotal.WithLabelValues(purchaseResultLabel(err)).Inc()

		if err != nil {
			respondServiceError(w, r, ErrMsgPurchaseFailed, err)
			return
		}

		log.Info("Upgrade purchased",
			"profile_id", profileID,
			"upgrade_id", result.UpgradeID,
			"new_level", result.NewLevel,
			"price_paid", result.PricePaid)

		respondJSON(w, http.StatusOK, result)
	}
}

// purchaseResultLabel classifies a purchase outcome for the purchases metric
func purchaseResultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrInsufficientFunds):
		return metrics.ResultInsufficientFunds
	case errors.Is(err, domain.ErrUpgradeLocked):
		return metrics.ResultLocked
	case errors.Is(err, domain.ErrMaxLevelReached):
		return metrics.ResultMaxLevel
	case errors.Is(err, domain.ErrUpgradeNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
