package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/server"
	"github.com/osse101/GameDevClicker_Go/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Systems            *GameSystems
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops the application in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. Scheduler (no more autosave ticks)
//  3. Sessions (save every resident profile synchronously)
//  4. Worker pool (drain save jobs already queued)
//  5. SSE hub (disconnect stream clients)
//  6. Domain services
//  7. Event publisher (flush pending events), then the database pool
//
// Errors during shutdown are logged but do not stop the sequence; every
// component gets its chance to flush.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	sys := components.Systems

	sys.Scheduler.Stop()
	slog.Info(LogMsgSchedulerStopped)

	// Sessions save synchronously here; evictions queued earlier drain in
	// the worker pool stop below.
	if err := sys.Sessions.Close(ctx); err != nil {
		slog.Error(LogMsgSessionCloseFailed, "error", err)
	} else {
		slog.Info(LogMsgSessionsClosed)
	}
	sys.WorkerPool.Stop()

	if components.Hub != nil {
		components.Hub.Stop()
	}

	shutdownService(ctx, ServiceNameProgression, sys.Progression)
	shutdownService(ctx, ServiceNameShop, sys.Shop)
	shutdownService(ctx, ServiceNameOffline, sys.Offline)
	shutdownService(ctx, ServiceNameSaves, sys.Saves)

	// Shutdown resilient publisher last to flush pending events
	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	if sys.DBPool != nil {
		sys.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}

// shutdownService is a helper that shuts down a service and logs any errors.
// This implements a common pattern for all service shutdowns.
type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
