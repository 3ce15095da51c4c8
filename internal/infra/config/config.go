// Package config loads the simulator's INI configuration file (§6) into a
// single validated Config struct. It replaces the teacher's env-var/struct-tag
// loader (caarlos0/env) with gopkg.in/ini.v1, since this simulator is driven
// by a config file handed to a batch CLI rather than process environment
// variables — but keeps the teacher's fail-fast validateConfiguration idiom:
// every bad value is caught before the first episode starts and reported
// with the offending key attached as context.
package config

import (
	"gopkg.in/ini.v1"

	"github.com/elevatorsim/smdp-elevator/internal/domain"
)

// Controller names accepted by the [elevator] controller key.
const (
	ControllerRandom    = "RandomAgent"
	ControllerBestFirst = "BestFirstAgent"
	ControllerQLearner  = "ElevatorQAgent"
)

// TrafficProfileDownPeak is the only traffic_profile type name spec.md names.
const TrafficProfileDownPeak = "DownPeak"

// SimulationConfig is the [simulation] section.
type SimulationConfig struct {
	MaxTime float64 `ini:"max_time"`
	Seed    int64   `ini:"seed"`
}

// EnvironmentConfig is the [environment] section.
type EnvironmentConfig struct {
	NumFloors    int `ini:"num_floors"`
	NumElevators int `ini:"num_elevators"`
}

// ElevatorConfig is the [elevator] section.
type ElevatorConfig struct {
	Controller string `ini:"controller"`
	Capacity   int    `ini:"capacity"`
}

// TrafficProfileConfig is the [traffic_profile] section.
type TrafficProfileConfig struct {
	Type       string  `ini:"type"`
	Interfloor float64 `ini:"interfloor"`
}

// LearningConfig is the [learning] section.
type LearningConfig struct {
	UseQFile           bool    `ini:"use_q_file"`
	DataDir            string  `ini:"data_dir"`
	QFile              string  `ini:"q_file"`
	AnnealingFactor    float64 `ini:"annealing_factor"`
	IsTraining         bool    `ini:"is_training"`
	NumTestingEpisodes int     `ini:"num_testing_episodes"`
}

// Config is the fully loaded and validated simulator configuration.
type Config struct {
	Simulation     SimulationConfig
	Environment    EnvironmentConfig
	Elevator       ElevatorConfig
	TrafficProfile TrafficProfileConfig
	Learning       LearningConfig

	LogLevel string
}

// Load reads path as an INI file, maps its five documented sections into a
// Config, and validates it (§7.1: configuration errors fail before any
// episode starts, with the offending key named).
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to read configuration file", err).
			WithContext("path", path)
	}

	cfg := &Config{LogLevel: "INFO"}

	if err := file.Section("simulation").MapTo(&cfg.Simulation); err != nil {
		return nil, domain.NewConfigError("failed to parse [simulation] section", err)
	}
	if err := file.Section("environment").MapTo(&cfg.Environment); err != nil {
		return nil, domain.NewConfigError("failed to parse [environment] section", err)
	}
	if err := file.Section("elevator").MapTo(&cfg.Elevator); err != nil {
		return nil, domain.NewConfigError("failed to parse [elevator] section", err)
	}
	if err := file.Section("traffic_profile").MapTo(&cfg.TrafficProfile); err != nil {
		return nil, domain.NewConfigError("failed to parse [traffic_profile] section", err)
	}
	if err := file.Section("learning").MapTo(&cfg.Learning); err != nil {
		return nil, domain.NewConfigError("failed to parse [learning] section", err)
	}
	if logSec, err := file.GetSection("simulation"); err == nil && logSec.HasKey("log_level") {
		cfg.LogLevel = logSec.Key("log_level").String()
	}

	if err := validateConfiguration(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfiguration fails fast on every out-of-range or missing value,
// naming the offending key — mirrors the teacher's validateConfiguration,
// generalized from HTTP/timeout bounds to the simulator's domain bounds.
func validateConfiguration(cfg *Config) error {
	if cfg.Simulation.MaxTime <= 0 {
		return domain.NewConfigError("max_time must be positive", nil).
			WithContext("key", "simulation.max_time").WithContext("value", cfg.Simulation.MaxTime)
	}

	if cfg.Environment.NumFloors < 2 {
		return domain.NewConfigError("num_floors must be at least 2", nil).
			WithContext("key", "environment.num_floors").WithContext("value", cfg.Environment.NumFloors)
	}
	if cfg.Environment.NumElevators < 1 {
		return domain.NewConfigError("num_elevators must be at least 1", nil).
			WithContext("key", "environment.num_elevators").WithContext("value", cfg.Environment.NumElevators)
	}

	switch cfg.Elevator.Controller {
	case ControllerRandom, ControllerBestFirst, ControllerQLearner:
	default:
		return domain.NewConfigError("unknown controller", nil).
			WithContext("key", "elevator.controller").WithContext("value", cfg.Elevator.Controller)
	}
	if cfg.Elevator.Capacity < 1 {
		return domain.NewConfigError("capacity must be at least 1", nil).
			WithContext("key", "elevator.capacity").WithContext("value", cfg.Elevator.Capacity)
	}

	if cfg.TrafficProfile.Type != TrafficProfileDownPeak {
		return domain.NewConfigError("unknown traffic_profile type", nil).
			WithContext("key", "traffic_profile.type").WithContext("value", cfg.TrafficProfile.Type)
	}
	if cfg.TrafficProfile.Interfloor < 0 || cfg.TrafficProfile.Interfloor > 1 {
		return domain.NewConfigError("interfloor must be within [0, 1]", nil).
			WithContext("key", "traffic_profile.interfloor").WithContext("value", cfg.TrafficProfile.Interfloor)
	}

	if cfg.Elevator.Controller == ControllerQLearner {
		if cfg.Learning.AnnealingFactor <= 0 || cfg.Learning.AnnealingFactor >= 1 {
			return domain.NewConfigError("annealing_factor must be within (0, 1)", nil).
				WithContext("key", "learning.annealing_factor").WithContext("value", cfg.Learning.AnnealingFactor)
		}
		if cfg.Learning.UseQFile && cfg.Learning.QFile == "" {
			return domain.NewConfigError("q_file must be set when use_q_file is true", nil).
				WithContext("key", "learning.q_file")
		}
	}
	if cfg.Learning.NumTestingEpisodes < 0 {
		return domain.NewConfigError("num_testing_episodes must not be negative", nil).
			WithContext("key", "learning.num_testing_episodes").WithContext("value", cfg.Learning.NumTestingEpisodes)
	}

	return nil
}
