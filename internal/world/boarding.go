package world

import (
	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
	"github.com/elevatorsim/smdp-elevator/internal/schedule"
)

// beginBoarding is invoked the tick a car's CompleteAction reports it has
// just reached BOARDING (§4.2 board_passengers). Alighting passengers are
// scheduled first, one PassengerTransfer per second of sim time; boarding
// passengers drawn from the matching hall-call queue follow at the same
// cadence up to the car's remaining capacity. A DoneBoarding event closes
// out the sequence once every transfer has been scheduled.
func (w *World) beginBoarding(i int) {
	car := w.Cars[i]
	f := w.Floors[car.CurrentFloor()]
	t := w.SimTime

	for _, p := range car.Alight() {
		w.Queue.Push(&schedule.Event{
			Kind: schedule.PassengerTransfer, Time: t, ElevatorID: car.ID,
			FloorLevel: f.Level, Passenger: p, ToElevator: false,
		})
		t += constants.BoardingTransferInterval.Seconds()
	}

	dir := car.Direction
	if dir == domain.Stopped {
		if w.AnyHallCallAbove(f.Level) {
			dir = domain.Up
		} else {
			dir = domain.Down
		}
	}

	capacity := car.CapacityLeft()

	if dir == domain.Up {
		for _, p := range f.DrainUp(capacity) {
			w.Queue.Push(&schedule.Event{
				Kind: schedule.PassengerTransfer, Time: t, ElevatorID: car.ID,
				FloorLevel: f.Level, Passenger: p, ToElevator: true,
			})
			t += constants.BoardingTransferInterval.Seconds()
		}
	} else {
		for _, p := range f.DrainDown(capacity) {
			w.Queue.Push(&schedule.Event{
				Kind: schedule.PassengerTransfer, Time: t, ElevatorID: car.ID,
				FloorLevel: f.Level, Passenger: p, ToElevator: true,
			})
			t += constants.BoardingTransferInterval.Seconds()
		}
	}

	w.Queue.Push(&schedule.Event{
		Kind: schedule.DoneBoarding, Time: t + constants.GeneralEps, ElevatorID: car.ID, FloorLevel: f.Level,
	})
}
