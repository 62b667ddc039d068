package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one message on an SSE stream.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	ProfileID string      `json:"profile_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is one open stream. EventChannel is owned by the hub: the hub
// closes it on unregister or shutdown, and the serving handler reads until
// it closes.
type Client struct {
	ID           string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means all event types
	ProfileID    string          // empty means all profiles
}

// wants reports whether this client's filters admit the event.
func (c *Client) wants(evt Event) bool {
	if c.EventFilter != nil && !c.EventFilter[evt.Type] {
		return false
	}
	// Profile-scoped events only reach clients watching that profile.
	// Events without a profile (balance reloads, server notices) reach all.
	if c.ProfileID != "" && evt.ProfileID != "" && c.ProfileID != evt.ProfileID {
		return false
	}
	return true
}

// Hub fans game events out to connected SSE clients. All client membership
// changes go through the run loop, so handlers never touch the client map.
type Hub struct {
	clients map[string]*Client
	events  chan Event
	joins   chan *Client
	leaves  chan string
	closing chan struct{}
	mu      sync.RWMutex
	wg      sync.WaitGroup
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		events:  make(chan Event, BroadcastBufferSize),
		joins:   make(chan *Client, ClientChannelBuffer),
		leaves:  make(chan string, ClientChannelBuffer),
		closing: make(chan struct{}),
	}
}

// Start launches the fan-out loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the fan-out loop and closes every client stream.
func (h *Hub) Stop() {
	close(h.closing)
	h.wg.Wait()

	h.mu.Lock()
	for _, client := range h.clients {
		close(client.EventChannel)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.joins:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case clientID := <-h.leaves:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
			}
			h.mu.Unlock()

		case evt := <-h.events:
			h.fanOut(evt)

		case <-h.closing:
			return
		}
	}
}

// fanOut delivers one event to every interested client. Sends never block:
// a client that stopped draining its buffer misses events rather than
// stalling the loop for everyone else.
func (h *Hub) fanOut(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if !client.wants(evt) {
			continue
		}
		select {
		case client.EventChannel <- evt:
		default:
		}
	}
}

// Register opens a stream. profileID narrows it to one profile and
// eventTypes to specific types; both may be empty for everything.
func (h *Hub) Register(profileID string, eventTypes []string) *Client {
	client := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
		ProfileID:    profileID,
	}
	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	h.joins <- client
	return client
}

// Unregister closes a client's stream and forgets it.
func (h *Hub) Unregister(clientID string) {
	select {
	case h.leaves <- clientID:
	case <-h.closing:
	}
}

// Broadcast queues an event for fan-out. Drops the event when the queue is
// full; the stream is a live view, not a durable log.
func (h *Hub) Broadcast(eventType, profileID string, payload interface{}) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		ProfileID: profileID,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.events <- evt:
	default:
	}
}

// ClientCount returns the number of open streams.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in the wire format:
// "id: <id>\nevent: <type>\ndata: <json>\n\n".
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	msg := "id: " + evt.ID + "\n"
	msg += "event: " + evt.Type + "\n"
	msg += "data: " + string(data) + "\n\n"

	return []byte(msg), nil
}
