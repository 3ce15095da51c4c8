package floor

import (
	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
)

// Floor holds one building level's waiting passengers and hall-button
// state. Up and down queues are kept as ordinary FIFO slices rather than
// the teacher's map-of-destination-slices (internal/directions.Manager) —
// a single floor only ever needs two queues (up-bound, down-bound), not a
// routing table keyed by every other floor, so the append/flush/length
// idiom is kept but the map layer is dropped.
type Floor struct {
	Level    int
	Position float64

	upQueue   []*Passenger
	downQueue []*Passenger

	upButton   bool
	downButton bool
}

// NewFloor builds an empty floor at the given level.
func NewFloor(level int) *Floor {
	return &Floor{
		Level:    level,
		Position: float64(level) * constants.FloorHeight,
	}
}

// AddPassenger appends p to the queue matching its direction and turns on
// the matching button if it was off. Ground floor passengers heading up
// would indicate a traffic-profile bug under the down-peak profile this
// simulator targets; callers should have already excluded that case.
func (f *Floor) AddPassenger(p *Passenger) {
	if p.Direction() == domain.Up {
		f.upQueue = append(f.upQueue, p)
		f.upButton = true
		return
	}
	f.downQueue = append(f.downQueue, p)
	f.downButton = true
}

// HasUpWaiting / HasDownWaiting report non-empty queues.
func (f *Floor) HasUpWaiting() bool   { return len(f.upQueue) > 0 }
func (f *Floor) HasDownWaiting() bool { return len(f.downQueue) > 0 }

// UpLen / DownLen report queue lengths.
func (f *Floor) UpLen() int   { return len(f.upQueue) }
func (f *Floor) DownLen() int { return len(f.downQueue) }

// UpButton / DownButton report hall-button state.
func (f *Floor) UpButton() bool   { return f.upButton }
func (f *Floor) DownButton() bool { return f.downButton }

// DrainUp removes up to n passengers from the front of the up queue,
// clearing the up button iff the queue is left empty. Returns the drained
// passengers in arrival order.
func (f *Floor) DrainUp(n int) []*Passenger {
	return f.drain(&f.upQueue, &f.upButton, n)
}

// DrainDown is the down-queue analogue of DrainUp.
func (f *Floor) DrainDown(n int) []*Passenger {
	return f.drain(&f.downQueue, &f.downButton, n)
}

func (f *Floor) drain(queue *[]*Passenger, button *bool, n int) []*Passenger {
	if n <= 0 || len(*queue) == 0 {
		return nil
	}
	if n > len(*queue) {
		n = len(*queue)
	}
	drained := (*queue)[:n]
	*queue = (*queue)[n:]
	if len(*queue) == 0 {
		*button = false
	}
	return drained
}

// AllWaiting returns every waiting passenger on this floor, up then down,
// for iteration by the cost accumulator and episode statistics.
func (f *Floor) AllWaiting() []*Passenger {
	out := make([]*Passenger, 0, len(f.upQueue)+len(f.downQueue))
	out = append(out, f.upQueue...)
	out = append(out, f.downQueue...)
	return out
}
