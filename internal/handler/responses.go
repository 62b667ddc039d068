package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/session"
)

// encodeBuffers recycles encode buffers across requests. A full state
// snapshot with upgrade levels and milestones runs about a kilobyte, so
// buffers start there and grow only for the upgrade catalog endpoints.
var encodeBuffers = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		encodeBuffers.Put(buf)
	}()

	// Encode to the buffer first
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, so all we can do is log
		logger.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		logger.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed operation and translates its error into a
// user-facing HTTP response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, userMsg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName, "error", err, "status", status)
	} else {
		log.Debug(opName, "error", err, "status", status)
	}
	respondError(w, status, userMsg)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	// Purchase messages
	ErrMsgUpgradeNotFoundError = "Upgrade not found"
	ErrMsgUpgradeMaxLevelError = "Upgrade is already at max level"
	ErrMsgUpgradeLockedError   = "Upgrade is locked. Unlock more milestones first."
	ErrMsgNotEnoughMoneyError  = "Not enough money"
	ErrMsgProjectNotFoundError = "Project not found"
	ErrMsgProjectLockedError   = "Project is locked. Reach the required stage first."
	ErrMsgMilestoneRepeatError = "Milestone is already unlocked"

	// Save messages
	ErrMsgSaveNotFoundError = "No saved game found"
	ErrMsgSaveCorruptError  = "Saved game could not be read"
	ErrMsgSaveTooNewError   = "Saved game was written by a newer version"
	ErrMsgSessionUnknownErr = "Session not found"

	// Availability messages
	ErrMsgBalanceLoadingError = "Game data is still loading. Please try again shortly."
	ErrMsgShuttingDownError   = "Server is shutting down. Please try again shortly."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
// Internal error text never reaches the client; unknown errors collapse to a
// generic 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrUpgradeNotFound):
		return http.StatusNotFound, ErrMsgUpgradeNotFoundError
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, ErrMsgProjectNotFoundError
	case errors.Is(err, domain.ErrMaxLevelReached):
		return http.StatusBadRequest, ErrMsgUpgradeMaxLevelError
	case errors.Is(err, domain.ErrUpgradeLocked):
		return http.StatusForbidden, ErrMsgUpgradeLockedError
	case errors.Is(err, domain.ErrProjectLocked):
		return http.StatusForbidden, ErrMsgProjectLockedError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrDuplicateMilestone):
		return http.StatusConflict, ErrMsgMilestoneRepeatError
	case errors.Is(err, domain.ErrSaveNotFound):
		return http.StatusNotFound, ErrMsgSaveNotFoundError
	case errors.Is(err, domain.ErrSaveCorrupt):
		return http.StatusInternalServerError, ErrMsgSaveCorruptError
	case errors.Is(err, domain.ErrUnsupportedSaveVersion):
		return http.StatusInternalServerError, ErrMsgSaveTooNewError
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ErrMsgSessionUnknownErr
	case errors.Is(err, domain.ErrBalanceNotLoaded):
		return http.StatusServiceUnavailable, ErrMsgBalanceLoadingError
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable, ErrMsgShuttingDownError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
