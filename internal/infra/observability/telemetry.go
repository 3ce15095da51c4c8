// Package observability wires the simulator's episode-span tracing and
// training-run Prometheus metrics, adapted from the teacher's multi-backend
// TelemetryProvider down to the two exporters a batch simulation actually
// drives: an OpenTelemetry tracer (one span per episode) and a Prometheus
// registry served by internal/http for long unattended training runs.
package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TelemetryProvider is the simulator's tracer plus its registered Prometheus
// collectors.
type TelemetryProvider struct {
	config *Config
	logger *slog.Logger
	tracer trace.Tracer

	Registry *prometheus.Registry

	EpisodesCompleted prometheus.Counter
	EpisodeCost       prometheus.Histogram
	AvgWaitingTime    prometheus.Gauge
	PassengersServed  prometheus.Counter
}

// NewTelemetryProvider builds a provider. When config.Enabled is false, it
// returns a no-op tracer and an empty registry so callers never need to
// branch on whether telemetry is on.
func NewTelemetryProvider(config *Config, logger *slog.Logger) (*TelemetryProvider, error) {
	tp := &TelemetryProvider{config: config, logger: logger, Registry: prometheus.NewRegistry()}

	if !config.Enabled {
		tp.tracer = noop.NewTracerProvider().Tracer("noop")
		return tp, nil
	}

	tp.tracer = otel.Tracer(config.ServiceName)

	tp.EpisodesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace, Name: "episodes_completed_total",
		Help: "Number of simulation episodes completed.",
	})
	tp.EpisodeCost = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: config.Namespace, Name: "episode_cost",
		Help:    "Per-episode accumulated SMDP cost.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
	})
	tp.AvgWaitingTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace, Name: "avg_waiting_time_seconds",
		Help: "Average passenger waiting time over the most recent episode.",
	})
	tp.PassengersServed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace, Name: "passengers_served_total",
		Help: "Total passengers delivered across all episodes.",
	})

	for _, c := range []prometheus.Collector{tp.EpisodesCompleted, tp.EpisodeCost, tp.AvgWaitingTime, tp.PassengersServed} {
		if err := tp.Registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	logger.Info("telemetry provider initialized",
		slog.String("service", config.ServiceName),
		slog.String("version", config.Version))

	return tp, nil
}

// StartEpisodeSpan opens a span covering one simulation episode.
func (tp *TelemetryProvider) StartEpisodeSpan(ctx context.Context, episode int, isTraining bool) (context.Context, trace.Span) {
	return tp.tracer.Start(ctx, "episode",
		trace.WithAttributes(
			attribute.Int("episode", episode),
			attribute.Bool("is_training", isTraining),
		),
	)
}

// RecordEpisode updates the training-run gauges/counters/histogram once an
// episode finishes.
func (tp *TelemetryProvider) RecordEpisode(cost, avgWaitingTime float64, passengersServed int) {
	if !tp.config.Enabled {
		return
	}
	tp.EpisodesCompleted.Inc()
	tp.EpisodeCost.Observe(cost)
	tp.AvgWaitingTime.Set(avgWaitingTime)
	tp.PassengersServed.Add(float64(passengersServed))
}

// Shutdown is a no-op placeholder kept for call-site symmetry with the
// teacher's provider; the simulator has no exporter connections to drain.
func (tp *TelemetryProvider) Shutdown(ctx context.Context) error {
	tp.logger.Info("telemetry provider shutdown completed")
	return nil
}
