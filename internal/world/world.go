// Package world aggregates floors and elevator cars into the simulator's
// environment: it owns the event queue, runs the hybrid discrete/continuous
// loop (§4.4), and computes the learning-state features the controllers
// consume. It is grounded on the teacher's internal/manager.Manager — the
// aggregation root owning every elevator and dispatching requests — but
// generalized from a live-HTTP-request router into a batch simulation loop
// that also derives LearningState features the way manager.go derives
// elevator status snapshots for its own /status handler.
package world

import (
	"math/rand"

	"github.com/elevatorsim/smdp-elevator/internal/carstate"
	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/control"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
	"github.com/elevatorsim/smdp-elevator/internal/floor"
	"github.com/elevatorsim/smdp-elevator/internal/qlearn"
	"github.com/elevatorsim/smdp-elevator/internal/schedule"
	"github.com/elevatorsim/smdp-elevator/internal/traffic"
)

// PassengerRecord is a completed passenger's lifecycle timestamps, read by
// internal/stats at episode boundaries to compute the per-episode CSV
// averages.
type PassengerRecord struct {
	ArrivalTime float64
	BoardedTime float64
	ExitTime    float64
}

func (r PassengerRecord) WaitingTime() float64  { return r.BoardedTime - r.ArrivalTime }
func (r PassengerRecord) BoardingTime() float64 { return r.ExitTime - r.BoardedTime }
func (r PassengerRecord) SystemTime() float64   { return r.ExitTime - r.ArrivalTime }

// World is the simulator's environment: every floor, every car, the shared
// event queue, and the traffic process generating new passengers.
// Controllers and Learners are parallel slices indexed the same as Cars;
// Learners[i] is nil unless Controllers[i] is a *qlearn.Agent.
type World struct {
	Floors      []*floor.Floor
	Cars        []*carstate.Car
	Controllers []control.Controller
	Learners    []*qlearn.Agent

	Queue      *schedule.Queue
	Profile    traffic.Profile
	Interfloor float64
	Rng        *rand.Rand

	SimTime         float64
	nextPassengerID int

	Completed []PassengerRecord
}

// New builds a World with numFloors floors and one car per entry in
// carCapacities, each starting at the ground floor. controllers and
// learners must be the same length as carCapacities.
func New(numFloors int, carCapacities []int, controllers []control.Controller, learners []*qlearn.Agent, profile traffic.Profile, interfloor float64, rng *rand.Rand) *World {
	floors := make([]*floor.Floor, numFloors)
	for i := range floors {
		floors[i] = floor.NewFloor(i)
	}

	cars := make([]*carstate.Car, len(carCapacities))
	for i, cap := range carCapacities {
		cars[i] = carstate.New(elevatorID(i), cap, 0)
	}

	return &World{
		Floors:      floors,
		Cars:        cars,
		Controllers: controllers,
		Learners:    learners,
		Queue:       schedule.NewQueue(),
		Profile:     profile,
		Interfloor:  interfloor,
		Rng:         rng,
	}
}

func elevatorID(i int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return "elevator-" + string(letters[i%len(letters)])
}

// ResetEpisode clears all per-episode state (passenger queues, car
// positions, the event queue, completed-passenger records) while keeping
// the learners' Q-tables and annealing schedule intact. Global id counters
// reset to zero, per the design note on per-episode-reset global state.
func (w *World) ResetEpisode() {
	for i, f := range w.Floors {
		w.Floors[i] = floor.NewFloor(f.Level)
	}
	for i, car := range w.Cars {
		w.Cars[i] = carstate.New(car.ID, car.Capacity, 0)
	}
	w.Queue = schedule.NewQueue()
	w.SimTime = 0
	w.nextPassengerID = 0
	w.Completed = nil
}

// SeedArrivals enqueues the episode's first passenger arrival.
func (w *World) SeedArrivals() {
	origin := w.pickOrigin()
	gap := w.Profile.NextInterarrival(w.SimTime, w.Rng)
	w.Queue.Push(&schedule.Event{Kind: schedule.PassengerArrival, Time: w.SimTime + gap, FloorLevel: origin})
}

func (w *World) pickOrigin() int {
	return 1 + w.Rng.Intn(len(w.Floors)-1)
}

func (w *World) carIndex(id string) int {
	for i, c := range w.Cars {
		if c.ID == id {
			return i
		}
	}
	panic(domain.NewInvariantError("event referenced unknown elevator id", nil).WithContext("elevator_id", id))
}

// Run advances the simulation from its current SimTime until maxTime,
// executing the hybrid loop defined in §4.4: motion tick, legal-action
// inspection, event dispatch, action completion — in that order, every Δt.
func (w *World) Run(maxTime float64) {
	dt := constants.TimeStep.Seconds()
	for w.SimTime < maxTime {
		w.SimTime += dt

		for _, car := range w.Cars {
			car.Step(w.SimTime, dt)
		}

		for i := range w.Cars {
			w.inspectLegalActions(i)
		}

		for w.Queue.Peek() != nil && w.Queue.Peek().Time <= w.SimTime+constants.GeneralEps {
			w.execute(w.Queue.Pop())
		}

		for i := range w.Cars {
			if w.Cars[i].CompleteAction() {
				w.beginBoarding(i)
			}
		}
	}
}

func (w *World) inspectLegalActions(i int) {
	car := w.Cars[i]
	actions, target := car.LegalActions(w)
	if actions == nil {
		return
	}
	if len(actions) == 1 {
		w.Queue.Push(&schedule.Event{Kind: schedule.ElevatorAction, Time: w.SimTime, ElevatorID: car.ID, Action: actions[0], FloorLevel: target})
		return
	}
	w.Queue.Push(&schedule.Event{Kind: schedule.ElevatorControl, Time: w.SimTime, ElevatorID: car.ID, FloorLevel: target})
}
