// Command simulate runs the elevator group-control simulator: it loads an
// INI configuration (§6), drives the episode loop described in §4.4/§4.7,
// appends per-episode statistics as it goes, and writes one Q-table
// checkpoint after the last episode.
// It is grounded on the teacher's cmd/server/main.go — flag parsing,
// structured startup logging, and signal-driven graceful shutdown — adapted
// from "serve HTTP requests until killed" to "run N simulated episodes,
// finalizing whichever episode is in flight when a shutdown signal arrives."
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/control"
	httpPkg "github.com/elevatorsim/smdp-elevator/internal/http"
	"github.com/elevatorsim/smdp-elevator/internal/infra/config"
	"github.com/elevatorsim/smdp-elevator/internal/infra/logging"
	"github.com/elevatorsim/smdp-elevator/internal/infra/observability"
	"github.com/elevatorsim/smdp-elevator/internal/qlearn"
	"github.com/elevatorsim/smdp-elevator/internal/stats"
	"github.com/elevatorsim/smdp-elevator/internal/traffic"
	"github.com/elevatorsim/smdp-elevator/internal/world"
)

func main() {
	configPath := flag.String("config", "simulation.ini", "path to the simulator's INI configuration file")
	verbose := flag.Bool("verbose", false, "force debug-level logging regardless of the configured log level")
	numEpisodes := flag.Int("num_episodes", 0, "number of episodes to run (0 = derive from the config: training-episode count when training ElevatorQAgent, 1 when training another controller, num_testing_episodes when not training)")
	metricsPort := flag.Int("metrics_port", constants.DefaultMetricsPort, "port serving /health, /metrics, and /status (0 disables the server)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logLevel := cfg.LogLevel
	if *verbose {
		logLevel = "DEBUG"
	}
	logging.InitLogger(logLevel)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	profile := traffic.NewDownPeak(constants.DownPeakRatesPerMinute)

	carCapacities := make([]int, cfg.Environment.NumElevators)
	for i := range carCapacities {
		carCapacities[i] = cfg.Elevator.Capacity
	}

	controllers, agents, qtablePath := buildControllers(cfg, carCapacities, rng, logger)

	w := world.New(cfg.Environment.NumFloors, carCapacities, controllers, agents, profile, cfg.TrafficProfile.Interfloor, rng)

	trainingEpisodeCount := qlearn.NumTrainingEpisodes(cfg.Learning.AnnealingFactor)
	k := trainingEpisodeCount
	if cfg.Elevator.Controller != config.ControllerQLearner {
		k = *numEpisodes
	}
	episodes := *numEpisodes
	if episodes <= 0 {
		if cfg.Learning.IsTraining && cfg.Elevator.Controller == config.ControllerQLearner {
			episodes = trainingEpisodeCount
		} else if cfg.Learning.IsTraining {
			episodes = 1
		} else {
			episodes = cfg.Learning.NumTestingEpisodes
		}
	}
	if k <= 0 {
		k = episodes
	}

	telemetry, err := observability.NewTelemetryProvider(observability.DefaultConfig(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}

	passengerStats := stats.NewPassengerStatsWriter(cfg.Learning.DataDir, cfg.Learning.IsTraining, k, logger)
	rewardStats := stats.NewEpisodeRewardWriter(cfg.Learning.DataDir, cfg.Learning.IsTraining, k, logger)

	statusStore := httpPkg.NewStatusStore()
	var server *httpPkg.Server
	if *metricsPort > 0 {
		server = httpPkg.NewServer(cfg, *metricsPort, telemetry, statusStore, passengerStats, rewardStats, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("http server stopped", slog.String("error", err.Error()))
			}
		}()
	}

	logger.InfoContext(ctx, "simulation starting",
		slog.String("controller", cfg.Elevator.Controller),
		slog.Int("num_floors", cfg.Environment.NumFloors),
		slog.Int("num_elevators", cfg.Environment.NumElevators),
		slog.Int("episodes", episodes),
		slog.Bool("is_training", cfg.Learning.IsTraining),
		slog.String("component", constants.ComponentSimulator))

	runEpisodes(ctx, w, agents, cfg, episodes, telemetry, passengerStats, rewardStats, statusStore, logger)

	if cfg.Elevator.Controller == config.ControllerQLearner && len(agents) > 0 {
		if err := stats.SaveCheckpoint(qtablePath, agents[0].Snapshot()); err != nil {
			logger.Error("failed to save final q-table checkpoint",
				slog.String("error", err.Error()),
				slog.String("component", constants.ComponentStats))
		}
	}

	if server != nil {
		if err := server.Shutdown(); err != nil {
			logger.Error("http server shutdown failed", slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "simulation finished", slog.String("component", constants.ComponentSimulator))
}

// buildControllers constructs one Controller per car per the configured
// strategy. For ElevatorQAgent it restores a shared Q-table (homogeneous
// elevator team, one decision function) from disk if one exists, and
// returns the path it should be checkpointed back to.
func buildControllers(cfg *config.Config, carCapacities []int, rng *rand.Rand, logger *slog.Logger) ([]control.Controller, []*qlearn.Agent, string) {
	numCars := len(carCapacities)
	controllers := make([]control.Controller, numCars)
	agents := make([]*qlearn.Agent, numCars)

	switch cfg.Elevator.Controller {
	case config.ControllerRandom:
		for i := range controllers {
			controllers[i] = control.NewRandomAgent(rng)
		}
		return controllers, agents, ""

	case config.ControllerBestFirst:
		for i := range controllers {
			controllers[i] = control.BestFirstAgent{}
		}
		return controllers, agents, ""

	case config.ControllerQLearner:
		k := qlearn.NumTrainingEpisodes(cfg.Learning.AnnealingFactor)
		qtablePath := stats.QTablePath(cfg.Learning.DataDir, k)
		if cfg.Learning.UseQFile && cfg.Learning.QFile != "" {
			qtablePath = filepath.Join(cfg.Learning.DataDir, cfg.Learning.QFile)
		}

		for i := range agents {
			agents[i] = qlearn.New(i, constants.SMDPBeta, cfg.Learning.AnnealingFactor, rng)
		}

		if cp, ok, err := stats.LoadCheckpoint(qtablePath); err != nil {
			logger.Warn("failed to load q-table checkpoint, starting from an empty table",
				slog.String("path", qtablePath), slog.String("error", err.Error()))
		} else if ok {
			agents[0].Restore(cp)
		}
		for i := 1; i < numCars; i++ {
			agents[i].QValues = agents[0].QValues
			agents[i].EpisodesSoFar = agents[0].EpisodesSoFar
		}

		for i, a := range agents {
			controllers[i] = a
		}
		return controllers, agents, qtablePath

	default:
		panic(fmt.Sprintf("unreachable: config validation should reject controller %q", cfg.Elevator.Controller))
	}
}

// runEpisodes drives the episode loop until episodes complete or ctx is
// cancelled between episodes (§7: a shutdown signal finalizes the episode
// in flight, then stops rather than starting another).
func runEpisodes(
	ctx context.Context,
	w *world.World,
	agents []*qlearn.Agent,
	cfg *config.Config,
	episodes int,
	telemetry *observability.TelemetryProvider,
	passengerStats *stats.PassengerStatsWriter,
	rewardStats *stats.EpisodeRewardWriter,
	statusStore *httpPkg.StatusStore,
	logger *slog.Logger,
) {
	for episode := 0; episode < episodes; episode++ {
		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received, stopping before next episode",
				slog.Int("episodes_completed", episode))
			return
		default:
		}

		w.ResetEpisode()
		for _, a := range agents {
			if a != nil {
				a.StartEpisode(cfg.Learning.IsTraining)
			}
		}
		w.SeedArrivals()

		_, span := telemetry.StartEpisodeSpan(ctx, episode, cfg.Learning.IsTraining)
		w.Run(cfg.Simulation.MaxTime)
		span.End()

		var cost float64
		for _, a := range agents {
			if a != nil {
				a.EndEpisode()
				cost += a.EpisodeReward
			}
		}

		avg := stats.Aggregate(episode, w.Completed)
		passengerStats.Append(avg)
		rewardStats.Append(episode, cost)
		telemetry.RecordEpisode(cost, avg.AvgWaitingTime, len(w.Completed))

		statusStore.Store(httpPkg.StatusSnapshot{
			Episode:          episode,
			IsTraining:       cfg.Learning.IsTraining,
			SimTimeSeconds:   w.SimTime,
			PassengersServed: len(w.Completed),
			AvgWaitingTime:   avg.AvgWaitingTime,
		})

		logger.InfoContext(ctx, "episode completed",
			slog.Int("episode", episode),
			slog.Int("passengers_served", len(w.Completed)),
			slog.Float64("avg_waiting_time", avg.AvgWaitingTime),
			slog.Float64("cost", cost),
			slog.String("component", constants.ComponentSimulator))
	}
}
