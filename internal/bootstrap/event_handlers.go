package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/GameDevClicker_Go/internal/config"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/metrics"
	"github.com/osse101/GameDevClicker_Go/internal/notify"
	"github.com/osse101/GameDevClicker_Go/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus  event.Bus
	Publisher *event.ResilientPublisher
	Hub       *sse.Hub
	Config    *config.Config
}

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (business metrics from game events)
// - SSE subscriber (forwards game events to connected stream clients)
// - Notifier (webhook announcements for level-ups, stages and milestones)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	collector := metrics.NewEventMetricsCollector(deps.Config.SaveBackend)
	if err := collector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetricsCollector, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered, "save_backend", deps.Config.SaveBackend)

	sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()

	notifier := notify.NewNotifier(deps.Config.DiscordWebhookURL, deps.Publisher)
	notifier.Subscribe(deps.EventBus)

	slog.Info(LogMsgEventSubscribersRegistered)
	return nil
}
