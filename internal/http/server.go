// Package http serves the simulator's operational surface during a
// long-running training job: Prometheus metrics, liveness/readiness health
// checks, and a JSON snapshot of simulation progress. It is adapted from the
// teacher's internal/http server — same middleware chain, same
// ResponseWriter/APIResponse envelope, same health-check wiring — but with
// the live elevator-request REST API and the WebSocket status stream removed,
// since this module drives passengers through a batch simulation loop rather
// than answering real hall calls.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/infra/config"
	"github.com/elevatorsim/smdp-elevator/internal/infra/health"
	"github.com/elevatorsim/smdp-elevator/internal/infra/logging"
	"github.com/elevatorsim/smdp-elevator/internal/infra/observability"
	"github.com/elevatorsim/smdp-elevator/internal/stats"
)

// Server exposes the simulator's health, metrics, and status endpoints.
type Server struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	healthService  *health.HealthService
	telemetry      *observability.TelemetryProvider
	status         *StatusStore
	passengerStats *stats.PassengerStatsWriter
	rewardStats    *stats.EpisodeRewardWriter
}

// NewServer wires the middleware chain and routes. status is updated by the
// episode runner and read back here; telemetry owns the Prometheus registry
// served at /metrics. passengerStats/rewardStats may be nil (e.g. in tests);
// when present, their circuit-breaker state feeds the /health checks.
func NewServer(cfg *config.Config, port int, telemetry *observability.TelemetryProvider, status *StatusStore, passengerStats *stats.PassengerStatsWriter, rewardStats *stats.EpisodeRewardWriter, logger *slog.Logger) *Server {
	s := &Server{
		cfg:            cfg,
		logger:         logger,
		telemetry:      telemetry,
		status:         status,
		passengerStats: passengerStats,
		rewardStats:    rewardStats,
	}
	s.healthService = health.NewHealthService(5 * time.Second)
	s.setupHealthChecks()

	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", s.livenessHandler)
	mux.HandleFunc("/health/ready", s.readinessHandler)
	mux.HandleFunc("/health", s.detailedHealthHandler)
	mux.HandleFunc("/status", s.statusHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(telemetry.Registry, promhttp.HandlerOpts{}))

	handler := ChainMiddleware(
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
	)(mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupHealthChecks registers the checkers a stuck or resource-starved
// training run would trip.
func (s *Server) setupHealthChecks() {
	s.healthService.Register(health.NewLivenessChecker())
	s.healthService.Register(health.NewSystemResourceChecker(85.0, 2000))
	s.healthService.Register(health.NewEpisodeProgressChecker(func() int {
		return s.status.Load().Episode
	}))
	if s.passengerStats != nil {
		s.healthService.Register(health.NewComponentHealthChecker("passenger_stats_writer", writerHealthFunc(s.passengerStats)))
	}
	if s.rewardStats != nil {
		s.healthService.Register(health.NewComponentHealthChecker("episode_reward_writer", writerHealthFunc(s.rewardStats)))
	}
}

// writerHealthFunc adapts a CSVWriter's Healthy() into the
// health.ComponentHealthChecker callback shape.
func writerHealthFunc(w interface{ Healthy() bool }) func(ctx context.Context) (bool, string, map[string]interface{}) {
	return func(ctx context.Context) (bool, string, map[string]interface{}) {
		if w.Healthy() {
			return true, "writer is accepting appends", nil
		}
		return false, "circuit breaker open: statistics appends are being skipped", nil
	}
}

func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, s.logger, requestID)

	result, err := s.healthService.Check(r.Context(), "liveness")
	if err != nil {
		rw.WriteError(http.StatusInternalServerError, ErrorCodeInternal, "liveness check unavailable", err.Error())
		return
	}
	rw.WriteJSON(http.StatusOK, result)
}

func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, s.logger, requestID)

	status, results := s.healthService.GetOverallStatus(r.Context())
	statusCode := http.StatusOK
	if status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	rw.WriteJSON(statusCode, map[string]any{"status": status, "checks": results})
}

func (s *Server) detailedHealthHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, s.logger, requestID)

	results := s.healthService.CheckAll(r.Context())
	rw.WriteJSON(http.StatusOK, map[string]any{"checks": results})
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, s.logger, requestID)
	rw.WriteJSON(http.StatusOK, s.status.Load())
}

// GetHandler returns the composed handler, mainly for tests.
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting http server",
		slog.String("addr", s.httpServer.Addr),
		slog.String("component", constants.ComponentHTTP))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
