// Package control implements the controller interface consulted at every
// unconstrained decision point: two heuristic baselines plus the
// semi-Markov Q-learner in internal/qlearn. The three variants are a
// closed sum-type dispatched through a single Go interface, per spec §9's
// explicit "additive change only" guidance — this mirrors the teacher's
// own small, closed set of request-handling strategies.
package control

import (
	"math/rand"

	"github.com/elevatorsim/smdp-elevator/internal/domain"
)

// LearningState is the tuple key into the Q-table (§3): hall calls above
// and below the car, the number of car calls in its current direction,
// its floor, and its direction. Kept as a plain comparable struct so it
// can be used directly as a Go map key.
type LearningState struct {
	HallUpAbove   bool
	HallDownAbove bool
	HallUpBelow   bool
	HallDownBelow bool
	NumCarCalls   int
	Floor         int
	Direction     domain.Direction
}

// DecisionContext is everything a Controller needs to resolve an
// unconstrained STOP/CONTINUE decision: the learning-state key plus the
// concrete hall-call facts about the candidate stop target that the
// heuristic agents key off of directly (the Q-learner only uses State).
type DecisionContext struct {
	State LearningState
	Now   float64 // simulated time, used only by the Q-learner's SMDP discount

	StopTarget               int
	StopTargetHasUpWaiters   bool
	StopTargetHasDownWaiters bool
	HallCallsAboveStopTarget bool
	HallCallsBelowStopTarget bool
}

// Controller decides STOP or CONTINUE at an unconstrained decision point.
type Controller interface {
	GetAction(ctx DecisionContext) domain.Action
}

// RandomAgent returns STOP or CONTINUE with equal probability.
type RandomAgent struct {
	Rng *rand.Rand
}

func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{Rng: rng}
}

func (a *RandomAgent) GetAction(ctx DecisionContext) domain.Action {
	if a.Rng.Float64() < 0.5 {
		return domain.Stop
	}
	return domain.Continue
}

// BestFirstAgent is the greedy heuristic baseline (§4.6): it stops for
// waiters heading the car's current direction, and will also stop for
// waiters heading the opposite direction provided no further hall call
// exists beyond the stop target in the car's direction of travel (since in
// that case the car would otherwise have to reverse right after serving
// them anyway).
type BestFirstAgent struct{}

func (BestFirstAgent) GetAction(ctx DecisionContext) domain.Action {
	switch ctx.State.Direction {
	case domain.Up:
		if ctx.StopTargetHasUpWaiters {
			return domain.Stop
		}
		if ctx.StopTargetHasDownWaiters && !ctx.HallCallsAboveStopTarget {
			return domain.Stop
		}
	case domain.Down:
		if ctx.StopTargetHasDownWaiters {
			return domain.Stop
		}
		if ctx.StopTargetHasUpWaiters && !ctx.HallCallsBelowStopTarget {
			return domain.Stop
		}
	}
	return domain.Continue
}
