package sse

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Handler returns an HTTP handler for SSE connections.
// Query params: "profile" narrows the stream to one profile's events,
// "types" is a comma-separated list of event types to include.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ServeClient(hub, r.URL.Query().Get("profile"), w, r)
	}
}

// ServeClient streams hub events to w until the request context is cancelled.
// An empty profileID subscribes to every profile's events. The "types" query
// parameter narrows the stream to a comma-separated list of event types.
func ServeClient(hub *Hub, profileID string, w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Check for flusher support
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	var eventTypes []string
	filterParam := r.URL.Query().Get("types")
	if filterParam != "" {
		eventTypes = strings.Split(filterParam, ",")
	}

	// Register client
	client := hub.Register(profileID, eventTypes)
	slog.Info(LogMsgClientConnected,
		"client_id", client.ID,
		"profile_id", profileID,
		"filters", eventTypes,
		"total_clients", hub.ClientCount())

	// Ensure cleanup on disconnect
	defer func() {
		hub.Unregister(client.ID)
		slog.Info(LogMsgClientDisconnected,
			"client_id", client.ID,
			"total_clients", hub.ClientCount())
	}()

	// Send initial connection event
	connectEvent := Event{
		ID:        client.ID,
		Type:      EventTypeConnected,
		Timestamp: time.Now().Unix(),
		Payload: ConnectedPayload{
			ClientID:  client.ID,
			ProfileID: profileID,
			Filters:   eventTypes,
		},
	}
	if msg, err := FormatSSEMessage(connectEvent); err == nil {
		if _, err := w.Write(msg); err != nil {
			return
		}
		flusher.Flush()
	}

	// Keepalive ticker
	ticker := time.NewTicker(KeepaliveInterval)
	defer ticker.Stop()

	// Event loop
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case event, ok := <-client.EventChannel:
			if !ok {
				// Channel closed, hub is shutting down
				return
			}

			msg, err := FormatSSEMessage(event)
			if err != nil {
				slog.Error(LogMsgWriteError, "error", err)
				continue
			}

			if _, err := w.Write(msg); err != nil {
				slog.Warn(LogMsgWriteError, "error", err)
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive ping
			keepalive := Event{
				ID:        "",
				Type:      EventTypeKeepalive,
				Timestamp: time.Now().Unix(),
				Payload:   nil,
			}
			msg, _ := FormatSSEMessage(keepalive)
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
