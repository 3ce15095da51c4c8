// Package traffic models the passenger arrival process: a time-varying
// rate table and origin/target sampling. DownPeak is the sole profile
// spec.md names, but the Profile interface is written for more than one
// implementation up front (see internal/control for the same pattern
// applied to controllers) since both are flagged in
// _examples/original_source/code/control.py as candidates for extension.
package traffic

import "math/rand"

// Profile generates inter-arrival gaps and passenger targets for a
// building's passenger arrival process.
type Profile interface {
	// RatePerMinute returns the current arrival rate (passengers per
	// floor per minute) at simTime seconds into the episode.
	RatePerMinute(simTime float64) float64

	// NextInterarrival draws the next arrival gap, in seconds, given the
	// rate at simTime.
	NextInterarrival(simTime float64, rng *rand.Rand) float64

	// SampleTarget draws a destination floor for a passenger originating
	// at origin, given numFloors in the building and the interfloor
	// travel probability.
	SampleTarget(origin, numFloors int, interfloor float64, rng *rand.Rand) int
}

// DownPeak is the down-peak traffic profile (§4.5): twelve consecutive
// 5-minute intervals with a literal arrival-rate table, most passengers
// bound for the ground floor.
type DownPeak struct {
	RatesPerMinute [12]float64
}

// NewDownPeak returns a down-peak profile over the given rate table;
// cmd/simulate passes the literal constants.DownPeakRatesPerMinute.
func NewDownPeak(ratesPerMinute [12]float64) DownPeak {
	return DownPeak{RatesPerMinute: ratesPerMinute}
}

func (d DownPeak) RatePerMinute(simTime float64) float64 {
	minutesElapsed := simTime / 60
	idx := int(minutesElapsed / 5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(d.RatesPerMinute) {
		idx = len(d.RatesPerMinute) - 1
	}
	return d.RatesPerMinute[idx]
}

// NextInterarrival draws Exponential(rate/5) seconds, where rate is the
// current passengers-per-floor-per-minute figure (§4.5's worked example:
// rate=4.5 at minute 22 gives Exp(0.9)).
func (d DownPeak) NextInterarrival(simTime float64, rng *rand.Rand) float64 {
	lambda := d.RatePerMinute(simTime) / 5
	return rng.ExpFloat64() / lambda
}

// SampleTarget picks ground floor with probability (1 - interfloor),
// otherwise a uniformly random floor in {1, ..., numFloors-1} \ {origin}.
func (d DownPeak) SampleTarget(origin, numFloors int, interfloor float64, rng *rand.Rand) int {
	if rng.Float64() >= interfloor {
		return 0
	}
	for {
		target := 1 + rng.Intn(numFloors-1)
		if target != origin {
			return target
		}
	}
}
