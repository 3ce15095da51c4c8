// Package schedule implements the time-stamped event queue that drives the
// discrete half of the simulator's hybrid discrete/continuous loop. The
// loop itself — motion tick, legal-action inspection, event dispatch,
// action completion, in that fixed order — is owned by internal/world,
// which is the only package that knows how to execute each event kind.
package schedule

import (
	"github.com/elevatorsim/smdp-elevator/internal/domain"
	"github.com/elevatorsim/smdp-elevator/internal/floor"
)

// Kind identifies one of the five event variants named in spec §3. Event is
// a closed tagged struct rather than an interface-per-variant hierarchy —
// there is no executor-specific behavior to dispatch on inside this
// package, only ordering, so a single struct with a Kind discriminant is
// the simpler idiom.
type Kind int

const (
	PassengerArrival Kind = iota
	PassengerTransfer
	DoneBoarding
	ElevatorAction
	ElevatorControl
)

func (k Kind) String() string {
	switch k {
	case PassengerArrival:
		return "PASSENGER_ARRIVAL"
	case PassengerTransfer:
		return "PASSENGER_TRANSFER"
	case DoneBoarding:
		return "DONE_BOARDING"
	case ElevatorAction:
		return "ELEVATOR_ACTION"
	case ElevatorControl:
		return "ELEVATOR_CONTROL"
	default:
		return "UNKNOWN"
	}
}

// Event is one timestamped entry in the scheduler's min-heap. Only the
// fields relevant to Kind are populated; internal/world reads them back by
// switching on Kind.
type Event struct {
	Kind Kind
	Time float64
	Seq  uint64 // monotonic insertion sequence, the heap tie-breaker

	FloorLevel int    // PassengerArrival origin, PassengerTransfer/DoneBoarding floor, ElevatorAction/ElevatorControl stop target
	ElevatorID string // PassengerTransfer, DoneBoarding, ElevatorAction, ElevatorControl

	Passenger  *floor.Passenger // PassengerTransfer
	ToElevator bool             // PassengerTransfer: true = boarding, false = alighting

	Action domain.Action // ElevatorAction
}
