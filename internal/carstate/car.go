// Package carstate implements the elevator car's phase state machine: motion
// phase transitions, the two physical decision points, legal-action
// computation, and action application/completion. It replaces the teacher's
// goroutine/channel-driven internal/elevator.Elevator with a pure,
// scheduler-invoked struct — this simulator's core loop is single-threaded
// (see internal/schedule), so there is nothing left to synchronize.
package carstate

import (
	"sort"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
	"github.com/elevatorsim/smdp-elevator/internal/floor"
	"github.com/elevatorsim/smdp-elevator/internal/motion"
)

// HallQuery is the subset of building-wide state a Car needs to compute
// legal actions. internal/world implements it over its Floor collection,
// keeping carstate free of any dependency on world aggregation.
type HallQuery interface {
	GroundFloor() int
	TopFloor() int
	AnyHallCallAbove(floorLevel int) bool
	AnyHallCallBelow(floorLevel int) bool
	AnyHallCallAnywhere() bool
	HasUpWaiting(floorLevel int) bool
	HasDownWaiting(floorLevel int) bool
}

// Car is one elevator's full mutable state: phase, direction, pending
// action, motion body, and boarded passengers bucketed by destination
// floor (§3 ElevatorState).
type Car struct {
	ID       string
	Capacity int

	Body      motion.Body
	Direction domain.Direction
	Phase     domain.Phase
	Action    domain.Action

	AccelDecisionMade     bool
	FullSpeedDecisionMade bool
	StopTarget            int

	Passengers map[int][]*floor.Passenger
}

// New builds a Car at rest on startFloor.
func New(id string, capacity, startFloor int) *Car {
	return &Car{
		ID:         id,
		Capacity:   capacity,
		Body:       motion.NewBody(startFloor),
		Direction:  domain.Stopped,
		Phase:      domain.Idle,
		Action:     domain.NoAction,
		StopTarget: -1,
		Passengers: make(map[int][]*floor.Passenger),
	}
}

// CurrentFloor is the car's last-crossed floor index.
func (c *Car) CurrentFloor() int { return c.Body.Floor }

// NumPassengers is the total boarded count across all destination buckets.
func (c *Car) NumPassengers() int {
	n := 0
	for _, ps := range c.Passengers {
		n += len(ps)
	}
	return n
}

// CapacityLeft is the remaining boarding capacity.
func (c *Car) CapacityLeft() int { return c.Capacity - c.NumPassengers() }

// HasUpBoundPassengers / HasDownBoundPassengers check the destination
// buckets relative to CurrentFloor; invariant (b) in §3 guarantees these
// never both hold.
func (c *Car) HasUpBoundPassengers() bool {
	for f, ps := range c.Passengers {
		if len(ps) > 0 && f > c.Body.Floor {
			return true
		}
	}
	return false
}

func (c *Car) HasDownBoundPassengers() bool {
	for f, ps := range c.Passengers {
		if len(ps) > 0 && f < c.Body.Floor {
			return true
		}
	}
	return false
}

// CarCalls returns the sorted set of destination floors ahead of the car in
// its current direction of travel (§4.3).
func (c *Car) CarCalls() []int {
	var calls []int
	for f, ps := range c.Passengers {
		if len(ps) == 0 {
			continue
		}
		if (c.Direction == domain.Up && f > c.Body.Floor) || (c.Direction == domain.Down && f < c.Body.Floor) {
			calls = append(calls, f)
		}
	}
	sort.Ints(calls)
	return calls
}

func (c *Car) isCarCall(target int) bool {
	ps := c.Passengers[target]
	if len(ps) == 0 {
		return false
	}
	if c.Direction == domain.Up {
		return target > c.Body.Floor
	}
	return target < c.Body.Floor
}

// Board adds p to the destination bucket for p.Target and stamps its
// boarding time. Panics (via domain.Assert) if this would leave the car
// carrying passengers bound in both directions at once.
func (c *Car) Board(p *floor.Passenger, now float64) {
	p.Board(now)
	c.Passengers[p.Target] = append(c.Passengers[p.Target], p)
	domain.Assert(!(c.HasUpBoundPassengers() && c.HasDownBoundPassengers()),
		domain.NewInvariantError("elevator carrying passengers in both directions", nil).
			WithContext("elevator", c.ID).WithContext("floor", c.Body.Floor))
}

// Alight removes and returns every passenger whose destination is
// CurrentFloor, for exit processing by the caller.
func (c *Car) Alight() []*floor.Passenger {
	f := c.Body.Floor
	ps := c.Passengers[f]
	delete(c.Passengers, f)
	return ps
}

// distanceFromLastFloor is the absolute distance travelled since the last
// floor crossing, used to detect decision-point crossings.
func (c *Car) distanceFromLastFloor() float64 {
	d := c.Body.Pos - float64(c.Body.Floor)*constants.FloorHeight
	if d < 0 {
		d = -d
	}
	return d
}

// Step advances the car's motion by one Δt and clears decision-made flags
// on a non-decelerating floor crossing.
func (c *Car) Step(now, dt float64) motion.Result {
	res := motion.Step(&c.Body, c.Phase, c.Direction, now, dt)
	c.Phase = res.Phase
	if res.ClearDecisions {
		c.AccelDecisionMade = false
		c.FullSpeedDecisionMade = false
	}
	return res
}

// LegalActions computes the legal-action set at the car's current phase
// per §4.3. A nil slice means no decision this tick; a one-element slice is
// a constrained decision (apply directly, no learning sample); a
// two-element slice is an unconstrained decision routed to the controller.
// stopTarget is -1 unless the result names one.
func (c *Car) LegalActions(w HallQuery) (actions []domain.Action, stopTarget int) {
	stopTarget = -1

	if c.Action != domain.NoAction || c.Phase == domain.Boarding {
		return nil, -1
	}
	if !w.AnyHallCallAnywhere() && c.NumPassengers() == 0 {
		return nil, -1
	}

	switch c.Phase {
	case domain.Idle:
		if w.AnyHallCallAbove(c.Body.Floor) {
			return []domain.Action{domain.MoveUp}, -1
		}
		return []domain.Action{domain.MoveDown}, -1

	case domain.DoneBoarding:
		if c.HasUpBoundPassengers() {
			return []domain.Action{domain.MoveUp}, -1
		}
		if c.HasDownBoundPassengers() {
			return []domain.Action{domain.MoveDown}, -1
		}
		if w.AnyHallCallAbove(c.Body.Floor) {
			return []domain.Action{domain.MoveUp}, -1
		}
		return []domain.Action{domain.MoveDown}, -1
	}

	var lookahead int
	switch {
	case c.Phase == domain.Accelerating && !c.AccelDecisionMade && c.distanceFromLastFloor() >= constants.AccelDecisionDist:
		lookahead = 1
	case c.Phase == domain.FullSpeed && !c.FullSpeedDecisionMade && c.distanceFromLastFloor() >= constants.FullSpeedDecisionDist:
		lookahead = 2
	default:
		return nil, -1
	}

	target := c.Body.Floor + int(c.Direction.Sign())*lookahead
	domain.Assert(target >= w.GroundFloor() && target <= w.TopFloor(),
		domain.NewInvariantError("stop target past top/ground floor", nil).
			WithContext("elevator", c.ID).WithContext("target", target))

	if target == w.GroundFloor() || target == w.TopFloor() {
		return []domain.Action{domain.Stop}, target
	}
	if c.isCarCall(target) {
		return []domain.Action{domain.Stop}, target
	}
	if (!w.HasUpWaiting(target) && !w.HasDownWaiting(target)) || c.CapacityLeft() <= 0 {
		return []domain.Action{domain.Continue}, target
	}
	return []domain.Action{domain.Stop, domain.Continue}, target
}

// DoAction applies a decided action (§4.3 do_action). stopTarget is
// ignored except for Stop.
func (c *Car) DoAction(now float64, action domain.Action, stopTarget int) {
	c.Action = action
	c.Body.RefTime = now

	switch action {
	case domain.Stop:
		domain.Assert(c.Phase == domain.Accelerating || c.Phase == domain.FullSpeed,
			domain.NewInvariantError("decision point reached while already decelerating", nil).
				WithContext("elevator", c.ID).WithContext("phase", c.Phase.String()))
		if c.Phase == domain.FullSpeed {
			c.Phase = domain.FullSpeedDecelerating
			c.FullSpeedDecisionMade = true
		} else {
			c.Phase = domain.AccelDecelerating
			c.AccelDecisionMade = true
		}
		c.StopTarget = stopTarget

	case domain.Continue:
		if c.Phase == domain.Accelerating {
			c.AccelDecisionMade = true
		} else if c.Phase == domain.FullSpeed {
			c.FullSpeedDecisionMade = true
		}

	case domain.MoveUp:
		c.Direction = domain.Up
		c.Phase = domain.Accelerating

	case domain.MoveDown:
		c.Direction = domain.Down
		c.Phase = domain.Accelerating
	}
}

// CompleteAction applies §4.3 complete_action. It reports whether the car
// just reached its stop target and transitioned into BOARDING; the caller
// (internal/world) is responsible for invoking floor-boarding logic when
// true.
func (c *Car) CompleteAction() (reachedStopTarget bool) {
	if c.Action == domain.Stop &&
		c.Phase.IsDecelerating() &&
		c.Body.Floor == c.StopTarget &&
		absFloat(c.Body.Vel) <= constants.GeneralEps {
		c.Phase = domain.Boarding
		c.Action = domain.NoAction
		c.StopTarget = -1
		return true
	}
	if c.Action != domain.Stop {
		c.Action = domain.NoAction
	}
	return false
}

// FinishBoarding applies the BOARDING -> {DONE_BOARDING, IDLE} transition
// once the DoneBoarding event fires. anyRequests is true when the car
// still carries passengers or the building still has outstanding hall
// calls.
func (c *Car) FinishBoarding(anyRequests bool) {
	if anyRequests {
		c.Phase = domain.DoneBoarding
		return
	}
	c.Phase = domain.Idle
	c.Direction = domain.Stopped
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
