package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/GameDevClicker_Go/internal/config"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/metrics"
)

// InitializeEventSystem creates and configures the event bus and resilient
// publisher. The bus is wrapped so every handler error is counted per event
// type, and events that exhaust their retries bump the dead-letter counter.
// Returns the event bus, resilient publisher, and any error encountered.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	bus := instrumentedBus{inner: event.NewMemoryBus()}

	deadLetterPath := cfg.DeadLetterPath
	if deadLetterPath == "" {
		deadLetterPath = EventDefaultDeadLetterPath
	}

	// Ensure dead-letter directory exists
	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgCreateDeadLetterDir, err)
	}

	publisher, err := event.NewResilientPublisher(bus, EventDefaultMaxRetries, EventDefaultRetryDelay, deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgCreateResilientPublisher, err)
	}
	publisher.SetDeadLetterHook(func(event.Type) {
		metrics.DeadLetterTotal.Inc()
	})

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", deadLetterPath)

	return bus, publisher, nil
}

// instrumentedBus counts handler errors per event type. Handlers are wrapped
// at subscribe time so the count covers every subscriber registered through
// the wired bus.
type instrumentedBus struct {
	inner event.Bus
}

func (b instrumentedBus) Publish(ctx context.Context, evt event.Event) error {
	return b.inner.Publish(ctx, evt)
}

func (b instrumentedBus) Subscribe(eventType event.Type, handler event.Handler) {
	b.inner.Subscribe(eventType, func(ctx context.Context, evt event.Event) error {
		err := handler(ctx, evt)
		if err != nil {
			metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		}
		return err
	})
}
