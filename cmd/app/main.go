package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/bootstrap"
	"github.com/osse101/GameDevClicker_Go/internal/config"
	"github.com/osse101/GameDevClicker_Go/internal/handler"
	"github.com/osse101/GameDevClicker_Go/internal/server"
	"github.com/osse101/GameDevClicker_Go/internal/sse"
)

// ShutdownTimeout bounds graceful shutdown. Closing every cached session
// flushes its save synchronously, so this must cover a full sweep of the
// session cache plus the worker pool drain.
const ShutdownTimeout = 30 * time.Second

// @title GameDevClicker API
// @version 1.0
// @description Idle clicker backend: per-profile game sessions, purchases, milestones and offline progress.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	handler.InitValidator()

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Event system initialization failed", "error", err)
		os.Exit(1)
	}

	hub := sse.NewHub()
	hub.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:  bus,
		Publisher: publisher,
		Hub:       hub,
		Config:    cfg,
	}); err != nil {
		slog.Error("Event handler registration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	systems, err := bootstrap.InitializeGameSystems(ctx, cfg, publisher)
	if err != nil {
		slog.Error("Game system initialization failed", "error", err)
		os.Exit(1)
	}

	deps := server.Deps{
		Sessions:     systems.Sessions,
		BalanceStore: systems.Balance,
		Publisher:    publisher,
		Hub:          hub,
	}
	// Assign only when a pool exists; a nil *pgxpool.Pool inside the
	// interface would pass the readiness nil check and then panic on Ping.
	if systems.DBPool != nil {
		deps.DBPool = systems.DBPool
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, deps)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Systems:            systems,
		Hub:                hub,
		ResilientPublisher: publisher,
	})
}
