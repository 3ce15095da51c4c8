// Package constants centralizes literal values shared across the simulator
// so every package reads timing, distance, and HTTP defaults from one place
// instead of scattering magic numbers.
package constants

import "time"

// Motion dynamics (§6 of the design notes). These are measured from a real
// elevator's accel/coast/decel profile and must stay literal: nothing in
// this module derives them.
const (
	FloorHeight = 3.66    // meters per floor
	MaxSpeed    = 2.54    // m/s, full-speed cap
	AccelConst  = 0.8871057
	AccelTime   = 3.595 // seconds to reach full speed from rest

	AccelDecisionDist     = 1.83          // meters from last floor, ≈ FloorHeight/2
	FullSpeedDecisionDist = 2.6836781597  // meters from last floor

	TimeStep = 10 * time.Millisecond // Δt, fixed simulation tick

	GeneralEps = 1e-4 // tolerance for velocity/position/time comparisons

	NumEpsUpdate = 5 // episode interval constant; not read by any package in this module
)

// AccelDecel holds the parabola coefficients (c0, c1, c2, c3) for the
// deceleration-while-still-accelerating branch of the motion integrator:
// da/dt ≈ 2*c0*τ + c1.
var AccelDecel = [4]float64{3.51757258, -6.4762952, 0.9575183, 1.94148245}

// DownPeak arrival rates, passengers per floor per minute, one entry per
// 5-minute interval across a 60-minute episode.
var DownPeakRatesPerMinute = [12]float64{0.25, 0.5, 1, 1, 4.5, 3, 2, 1.75, 4.5, 1.25, 0.75, 0.5}

const MinutesPerTrafficInterval = 5

// SMDP cost-accumulator scale factor from §4.7. Keeps the discounted
// squared-wait integral numerically bounded.
const CostScaleFactor = 1e-6

// Boarding transfer cadence placeholder (open question #1: literal 1-second
// spacing chosen over a truncated-Erlang sample, see DESIGN.md).
const BoardingTransferInterval = 1 * time.Second

// Annealing schedule (§4.7).
const (
	InitialTemperature = 2.0
	InitialAlpha       = 0.01
	AlphaDecay         = 0.99975
	FinalTemperature   = 0.01
)

// SMDPBeta is the continuous-time discount rate applied by every
// qlearn.Agent. Not exposed as an INI key: spec.md's worked example (§9,
// "SMDP discount") fixes it at 0.01 and no section lists it as configurable.
const SMDPBeta = 0.01

// Component names used as slog attributes, matching the teacher's
// structured-logging idiom.
const (
	ComponentSimulator = "simulator"
	ComponentWorld     = "world"
	ComponentCarState  = "carstate"
	ComponentFloor     = "floor"
	ComponentSchedule  = "schedule"
	ComponentQLearn    = "qlearn"
	ComponentStats     = "stats"
	ComponentConfig    = "config"
	ComponentHTTP      = "http-server"
)

// HTTP / observability defaults.
const (
	DefaultMetricsPort = 9090
	MetricsNamespace   = "elevator_sim"
	ContentTypeJSON    = "application/json"
)

const DefaultLogLevel = "INFO"
