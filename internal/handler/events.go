package handler

import (
	"net/http"

	"github.com/osse101/GameDevClicker_Go/internal/sse"
)

// HandleEvents streams game events for one profile as Server-Sent Events
// @Summary Subscribe to game events
// @Description Opens a Server-Sent Events stream carrying this profile's game events (level-ups, milestone unlocks, purchases, saves). The optional types parameter narrows the stream to a comma-separated list of event types.
// @Tags events
// @Produce text/event-stream
// @Param profile path string true "Profile ID"
// @Param types query string false "Comma-separated event types to include"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/events/{profile} [get]
// @Security ApiKeyAuth
func HandleEvents(hub *sse.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := ProfileParam(r, w)
		if !ok {
			return
		}
		sse.ServeClient(hub, profileID, w, r)
	}
}
