package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/GameDevClicker_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers a pass-through handler for every client-facing event
// type. Payloads are forwarded as-is; the hub serializes them on write.
func (s *Subscriber) Subscribe() {
	eventTypes := []event.Type{
		event.MoneyChanged,
		event.ExperienceChanged,
		event.ClickValuesChanged,
		event.AutoIncomeChanged,
		event.LevelUp,
		event.StageUnlocked,
		event.MilestoneUnlocked,
		event.UpgradePurchased,
		event.ProjectCompleted,
		event.OfflineProgress,
		event.Notification,
		event.BalanceReloaded,
		event.GameSaved,
	}

	for _, eventType := range eventTypes {
		s.bus.Subscribe(eventType, s.handleEvent)
	}

	slog.Info(LogMsgSubscriberRegistered, "count", len(eventTypes))
}

// handleEvent forwards a bus event to the hub, tagged with the profile it
// concerns so per-profile streams can filter.
func (s *Subscriber) handleEvent(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), payloadProfileID(evt.Payload), evt.Payload)

	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type)
	return nil
}

// payloadProfileID extracts the owning profile from a typed event payload.
// Profile-less payloads (balance reloads) return "".
func payloadProfileID(payload interface{}) string {
	switch p := payload.(type) {
	case event.CurrencyChangedPayloadV1:
		return p.ProfileID
	case event.ClickValuesChangedPayloadV1:
		return p.ProfileID
	case event.AutoIncomeChangedPayloadV1:
		return p.ProfileID
	case event.LevelUpPayloadV1:
		return p.ProfileID
	case event.StageUnlockedPayloadV1:
		return p.ProfileID
	case event.MilestoneUnlockedPayloadV1:
		return p.ProfileID
	case event.UpgradePurchasedPayloadV1:
		return p.ProfileID
	case event.ProjectCompletedPayloadV1:
		return p.ProfileID
	case event.OfflineProgressPayloadV1:
		return p.ProfileID
	case event.NotificationPayloadV1:
		return p.ProfileID
	case event.GameSavedPayloadV1:
		return p.ProfileID
	case map[string]interface{}:
		if id, ok := p["profile_id"].(string); ok {
			return id
		}
	}
	return ""
}
