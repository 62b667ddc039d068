package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/GameDevClicker_Go/internal/balance"
	"github.com/osse101/GameDevClicker_Go/internal/database"
	"github.com/osse101/GameDevClicker_Go/internal/event"
	"github.com/osse101/GameDevClicker_Go/internal/handler"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/metrics"
	"github.com/osse101/GameDevClicker_Go/internal/session"
	"github.com/osse101/GameDevClicker_Go/internal/sse"
)

// Deps carries everything the HTTP surface needs. The zero value of optional
// fields (DBPool) is fine; required fields are checked by the handlers they
// feed.
type Deps struct {
	Sessions     *session.Manager
	BalanceStore *balance.Store
	Publisher    *event.ResilientPublisher
	Hub          *sse.Hub
	DBPool       database.Pool
}

type Server struct {
	httpServer *http.Server
}

// NewServer builds the router and wraps it in an http.Server.
// Route map:
//
//	/healthz /readyz /version /metrics /swagger/*     public
//	/api/v1/session/{profile}/...                     gameplay, API key
//	/api/v1/events/{profile}                          SSE stream, API key
//	/api/v1/admin/...                                 operations, API key
func NewServer(port int, apiKey string, trustedProxies []string, deps Deps) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(readinessCheckers(deps)...))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Gameplay routes, one session per profile
		r.Route("/session/{profile}", func(r chi.Router) {
			r.Post("/click", handler.HandleClick(deps.Sessions))
			r.Post("/purchase", handler.HandlePurchase(deps.Sessions))
			r.Post("/save", handler.HandleSave(deps.Sessions))
			r.Post("/player", handler.HandleSetPlayerData(deps.Sessions))
			r.Post("/offline", handler.HandleOfflineProgress(deps.Sessions))

			r.Get("/state", handler.HandleGetState(deps.Sessions))
			r.Get("/upgrades", handler.HandleGetUpgrades(deps.Sessions))
			r.Get("/upgrades/{upgrade_id}", handler.HandleQuoteUpgrade(deps.Sessions))
			r.Get("/milestones", handler.HandleGetMilestones(deps.Sessions))
		})

		// Event stream
		r.Get("/events/{profile}", handler.HandleEvents(deps.Hub))

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/reload-balance", handler.HandleReloadBalance(deps.BalanceStore, deps.Sessions, deps.Publisher))
			r.Post("/reset/{profile}", handler.HandleResetProfile(deps.Sessions))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// readinessCheckers assembles the /readyz probes: balance data must be
// loaded, and when a database pool is configured it must answer a ping.
func readinessCheckers(deps Deps) []handler.HealthChecker {
	checkers := []handler.HealthChecker{
		handler.HealthCheckFunc(func(ctx context.Context) error {
			if !deps.BalanceStore.Loaded() {
				return errors.New("balance data not loaded")
			}
			return nil
		}),
	}
	if deps.DBPool != nil {
		checkers = append(checkers, handler.HealthCheckFunc(deps.DBPool.Ping))
	}
	return checkers
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets the wrapped writer keep serving SSE streams.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
