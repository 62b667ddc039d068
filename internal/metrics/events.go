package metrics

import (
	"context"

	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// EventMetricsCollector subscribes to game events and records business metrics
type EventMetricsCollector struct {
	saveBackend string
}

// NewEventMetricsCollector creates a collector that labels save metrics with
// the configured persistence backend ("file" or "postgres").
func NewEventMetricsCollector(saveBackend string) *EventMetricsCollector {
	return &EventMetricsCollector{saveBackend: saveBackend}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
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
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment the event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	// Record business metrics based on event type. Purchases and clicks are
	// counted at the HTTP layer where the outcome label is known.
	switch evt.Type {
	case event.MoneyChanged:
		payload, err := event.DecodePayload[event.CurrencyChangedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		if payload.Delta > 0 {
			MoneyEarned.Add(payload.Delta)
		} else if payload.Delta < 0 {
			MoneySpent.Add(-payload.Delta)
		}

	case event.ExperienceChanged:
		payload, err := event.DecodePayload[event.CurrencyChangedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		if payload.Delta > 0 {
			ExperienceEarned.Add(payload.Delta)
		}

	case event.LevelUp:
		LevelUpsTotal.Inc()

	case event.MilestoneUnlocked:
		payload, err := event.DecodePayload[event.MilestoneUnlockedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		MilestonesUnlockedTotal.WithLabelValues(payload.MilestoneID).Inc()

	case event.GameSaved:
		payload, err := event.DecodePayload[event.GameSavedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		result := ResultOK
		if !payload.Success {
			result = ResultError
		}
		SavesTotal.WithLabelValues(e.saveBackend, result).Inc()

	case event.OfflineProgress:
		OfflineReportsTotal.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
