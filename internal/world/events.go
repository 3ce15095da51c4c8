package world

import (
	"github.com/elevatorsim/smdp-elevator/internal/control"
	"github.com/elevatorsim/smdp-elevator/internal/floor"
	"github.com/elevatorsim/smdp-elevator/internal/schedule"
)

func (w *World) execute(e *schedule.Event) {
	switch e.Kind {
	case schedule.PassengerArrival:
		w.executeArrival(e)
	case schedule.PassengerTransfer:
		w.executeTransfer(e)
	case schedule.DoneBoarding:
		w.executeDoneBoarding(e)
	case schedule.ElevatorAction:
		w.executeElevatorAction(e)
	case schedule.ElevatorControl:
		w.executeElevatorControl(e)
	}
}

func (w *World) executeArrival(e *schedule.Event) {
	origin := e.FloorLevel
	target := w.Profile.SampleTarget(origin, len(w.Floors), w.Interfloor, w.Rng)

	p := floor.NewPassenger(w.nextPassengerID, origin, target, w.SimTime)
	w.nextPassengerID++
	w.Floors[origin].AddPassenger(p)

	w.updateCostAccumulators()

	nextOrigin := w.pickOrigin()
	gap := w.Profile.NextInterarrival(w.SimTime, w.Rng)
	w.Queue.Push(&schedule.Event{Kind: schedule.PassengerArrival, Time: w.SimTime + gap, FloorLevel: nextOrigin})
}

func (w *World) executeTransfer(e *schedule.Event) {
	if e.ToElevator {
		i := w.carIndex(e.ElevatorID)
		w.Cars[i].Board(e.Passenger, w.SimTime)
	} else {
		w.Completed = append(w.Completed, PassengerRecord{
			ArrivalTime: e.Passenger.ArrivalTime,
			BoardedTime: e.Passenger.BoardedTime,
			ExitTime:    w.SimTime,
		})
	}
	w.updateCostAccumulators()
}

func (w *World) executeDoneBoarding(e *schedule.Event) {
	i := w.carIndex(e.ElevatorID)
	car := w.Cars[i]
	anyRequests := car.NumPassengers() > 0 || w.AnyHallCallAnywhere()
	car.FinishBoarding(anyRequests)
}

func (w *World) executeElevatorAction(e *schedule.Event) {
	i := w.carIndex(e.ElevatorID)
	w.Cars[i].DoAction(w.SimTime, e.Action, e.FloorLevel)
}

func (w *World) executeElevatorControl(e *schedule.Event) {
	i := w.carIndex(e.ElevatorID)
	car := w.Cars[i]

	w.updateCostAccumulators()

	target := e.FloorLevel
	ctx := control.DecisionContext{
		State:                    w.learningState(i),
		Now:                      w.SimTime,
		StopTarget:               target,
		StopTargetHasUpWaiters:   w.Floors[target].HasUpWaiting(),
		StopTargetHasDownWaiters: w.Floors[target].HasDownWaiting(),
		HallCallsAboveStopTarget: w.AnyHallCallAbove(target),
		HallCallsBelowStopTarget: w.AnyHallCallBelow(target),
	}

	action := w.Controllers[i].GetAction(ctx)
	car.DoAction(w.SimTime, action, target)
}

func (w *World) learningState(i int) control.LearningState {
	car := w.Cars[i]
	f := car.CurrentFloor()
	return control.LearningState{
		HallUpAbove:   w.anyUpCallAbove(f),
		HallDownAbove: w.anyDownCallAbove(f),
		HallUpBelow:   w.anyUpCallBelow(f),
		HallDownBelow: w.anyDownCallBelow(f),
		NumCarCalls:   len(car.CarCalls()),
		Floor:         f,
		Direction:     car.Direction,
	}
}

func (w *World) updateCostAccumulators() {
	if len(w.Learners) == 0 {
		return
	}
	waiting := w.allWaitingPassengers()
	for _, l := range w.Learners {
		if l != nil {
			l.UpdateAccumulatedCost(w.SimTime, waiting)
		}
	}
}

func (w *World) allWaitingPassengers() []*floor.Passenger {
	var all []*floor.Passenger
	for _, f := range w.Floors {
		all = append(all, f.AllWaiting()...)
	}
	return all
}
