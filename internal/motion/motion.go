// Package motion integrates an elevator car's acceleration, velocity, and
// position forward by one fixed timestep, following the piecewise
// closed-form profile used by the real elevator this simulator models:
// sinusoidal acceleration, a coast at full speed, and a sinusoidal or
// parabolic deceleration back to rest at the target floor.
package motion

import (
	"math"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
)

// Body is the continuous-time motion state of one elevator car. RefTime is
// the simulated-time origin (τ=0) for the current phase's closed-form
// update — it is reset by carstate whenever a decision point commits the
// elevator to a new phase.
type Body struct {
	Accel   float64
	Vel     float64
	Pos     float64
	RefTime float64
	Floor   int
}

// NewBody returns a Body at rest on floor.
func NewBody(floor int) Body {
	return Body{Pos: float64(floor) * constants.FloorHeight, Floor: floor}
}

// Result reports the side effects of a Step that the caller (internal/carstate)
// must react to: a phase promotion, a floor crossing, or a flag reset.
type Result struct {
	Phase          domain.Phase
	CrossedFloor   bool
	ClearDecisions bool
}

// Step advances b by one Δt under the given phase and direction, evaluated
// at simulated time now. It returns the (possibly promoted) phase and
// whether a floor boundary was crossed this tick.
//
// dt is constants.TimeStep expressed in seconds; callers pass it explicitly
// so tests can exercise non-default step sizes.
func Step(b *Body, phase domain.Phase, dir domain.Direction, now, dt float64) Result {
	tau := now - b.RefTime
	sign := dir.Sign()

	switch phase {
	case domain.Idle, domain.Boarding, domain.DoneBoarding:
		b.Accel = 0
		b.Vel = 0
		return Result{Phase: phase}

	case domain.FullSpeed:
		b.Accel = 0
		b.Vel = sign * constants.MaxSpeed

	case domain.Accelerating:
		da := math.Cos(constants.AccelConst*tau) * dt
		b.Accel += sign * da

	case domain.AccelDecelerating:
		c := constants.AccelDecel
		da := (2*c[0]*tau + c[1]) * dt
		b.Accel += sign * da

	case domain.FullSpeedDecelerating:
		da := -math.Cos(constants.AccelConst*tau) * dt
		b.Accel += sign * da
	}

	b.Vel += b.Accel * dt
	b.Pos += b.Vel * dt

	result := Result{Phase: phase}

	if math.Abs(b.Vel) >= constants.MaxSpeed-constants.GeneralEps {
		b.Vel = sign * constants.MaxSpeed
		if phase == domain.Accelerating {
			result.Phase = domain.FullSpeed
		}
	}

	floorLevel := float64(b.Floor) * constants.FloorHeight
	if math.Abs(b.Pos-floorLevel) >= constants.FloorHeight-constants.GeneralEps {
		b.Floor += int(sign)
		b.Pos = float64(b.Floor) * constants.FloorHeight
		result.CrossedFloor = true
		if !result.Phase.IsDecelerating() {
			result.ClearDecisions = true
		}
	}

	return result
}
