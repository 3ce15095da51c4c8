// Package stats persists what a training run produces: per-episode
// passenger-wait CSVs, per-episode reward CSVs, and Q-table checkpoints
// (§8). Appends are wrapped in a CircuitBreaker per §7 — an I/O fault
// on one episode's statistics is logged and the episode loop continues
// rather than aborting the run over a disk hiccup.
package stats

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
)

// CSVWriter appends rows to an episode-indexed CSV file, writing the header
// only the first time the file is created.
type CSVWriter struct {
	path    string
	header  []string
	breaker *CircuitBreaker
	logger  *slog.Logger
}

// NewCSVWriter builds a writer for path, which is created (with its parent
// directory) on first Append.
func NewCSVWriter(path string, header []string, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{
		path:    path,
		header:  header,
		logger:  logger,
		breaker: NewCircuitBreaker(5, 30*time.Second, 1),
	}
}

// Append writes one row, logging and swallowing any I/O error instead of
// propagating it to the episode loop.
func (w *CSVWriter) Append(row []string) {
	err := w.breaker.Execute(context.Background(), func() error {
		return w.appendRow(row)
	})
	if err != nil {
		w.logger.Warn("statistics append failed, episode continues",
			slog.String("path", w.path),
			slog.String("error", err.Error()),
			slog.String("component", constants.ComponentStats))
	}
}

// Healthy reports whether the writer's circuit breaker is closed —
// i.e. statistics are actually being persisted rather than silently
// skipped after repeated I/O failures.
func (w *CSVWriter) Healthy() bool {
	return w.breaker.State() != stateOpen
}

func (w *CSVWriter) appendRow(row []string) error {
	needsHeader := false
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		needsHeader = true
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("creating statistics directory: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening statistics file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(w.header); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// trainOrTest names the CSV basename suffix, matching §8's
// {train|test} placeholder.
func trainOrTest(isTraining bool) string {
	if isTraining {
		return "train"
	}
	return "test"
}

// PassengerStatsWriter appends EpisodeAverages rows to
// passenger_statistics_{train|test}_{K}.csv.
type PassengerStatsWriter struct{ *CSVWriter }

// NewPassengerStatsWriter builds the writer for one training/testing run,
// named by k (the total number of training episodes, per §8) to avoid
// cross-contaminating files from differently-annealed runs.
func NewPassengerStatsWriter(dataDir string, isTraining bool, k int, logger *slog.Logger) *PassengerStatsWriter {
	path := filepath.Join(dataDir, fmt.Sprintf("passenger_statistics_%s_%d.csv", trainOrTest(isTraining), k))
	header := []string{"episode", "avg_waiting_time", "avg_boarding_time", "avg_system_time", "fraction_waiting_over_60s"}
	return &PassengerStatsWriter{NewCSVWriter(path, header, logger)}
}

func (w *PassengerStatsWriter) Append(a EpisodeAverages) {
	w.CSVWriter.Append([]string{
		strconv.Itoa(a.Episode),
		strconv.FormatFloat(a.AvgWaitingTime, 'f', 6, 64),
		strconv.FormatFloat(a.AvgBoardingTime, 'f', 6, 64),
		strconv.FormatFloat(a.AvgSystemTime, 'f', 6, 64),
		strconv.FormatFloat(a.FractionWaitingOver60s, 'f', 6, 64),
	})
}

// EpisodeRewardWriter appends (episode, cost) rows to
// episode_rewards_{train|test}_{K}.csv.
type EpisodeRewardWriter struct{ *CSVWriter }

func NewEpisodeRewardWriter(dataDir string, isTraining bool, k int, logger *slog.Logger) *EpisodeRewardWriter {
	path := filepath.Join(dataDir, fmt.Sprintf("episode_rewards_%s_%d.csv", trainOrTest(isTraining), k))
	return &EpisodeRewardWriter{NewCSVWriter(path, []string{"episode", "cost"}, logger)}
}

func (w *EpisodeRewardWriter) Append(episode int, cost float64) {
	w.CSVWriter.Append([]string{
		strconv.Itoa(episode),
		strconv.FormatFloat(cost, 'f', 6, 64),
	})
}
