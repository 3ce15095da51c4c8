package floor

import "github.com/elevatorsim/smdp-elevator/internal/domain"

// Passenger tracks one rider's lifecycle from arrival on a floor through
// boarding and exit. Unlike the teacher's cross-referenced domain structs,
// Passenger carries its floor as a plain int (origin) rather than a
// back-pointer, per the index-based-reference redesign note.
type Passenger struct {
	ID          int
	Origin      int
	Target      int
	Status      domain.PassengerStatus
	ArrivalTime float64
	BoardedTime float64
}

// NewPassenger constructs a WAITING passenger arriving at origin heading to
// target, stamped with the simulated arrival time.
func NewPassenger(id, origin, target int, arrivalTime float64) *Passenger {
	return &Passenger{
		ID:          id,
		Origin:      origin,
		Target:      target,
		Status:      domain.Waiting,
		ArrivalTime: arrivalTime,
	}
}

// Direction is Up if Target > Origin, Down otherwise (Target == Origin never
// occurs — the traffic profile excludes it).
func (p *Passenger) Direction() domain.Direction {
	if p.Target > p.Origin {
		return domain.Up
	}
	return domain.Down
}

// WaitingTime is (t - ArrivalTime), valid while Status == Waiting.
func (p *Passenger) WaitingTime(t float64) float64 {
	return t - p.ArrivalTime
}

// BoardingTime is (t - BoardedTime), valid while Status == Boarded.
func (p *Passenger) BoardingTime(t float64) float64 {
	return t - p.BoardedTime
}

// Board flips the passenger to BOARDED and stamps the boarding time.
func (p *Passenger) Board(now float64) {
	p.Status = domain.Boarded
	p.BoardedTime = now
}
