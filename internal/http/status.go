package http

import (
	"sync/atomic"
	"time"
)

// StatusSnapshot is a point-in-time view of the running simulation, published
// by the episode runner and served read-only over /status. Fields are plain
// JSON-friendly values rather than pointers into World, since World mutates
// every tick on the runner's goroutine while the HTTP server reads
// concurrently.
type StatusSnapshot struct {
	Episode          int       `json:"episode"`
	IsTraining       bool      `json:"is_training"`
	SimTimeSeconds   float64   `json:"sim_time_seconds"`
	PassengersServed int       `json:"passengers_served"`
	AvgWaitingTime   float64   `json:"avg_waiting_time_seconds"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StatusStore holds the latest StatusSnapshot behind an atomic.Value so the
// runner can publish progress without taking a lock the HTTP server might
// contend on mid-tick.
type StatusStore struct {
	v atomic.Value
}

// NewStatusStore returns a store pre-populated with a zero snapshot so Load
// never needs a nil check.
func NewStatusStore() *StatusStore {
	s := &StatusStore{}
	s.v.Store(StatusSnapshot{UpdatedAt: time.Now()})
	return s
}

// Store publishes a new snapshot, stamping UpdatedAt.
func (s *StatusStore) Store(snap StatusSnapshot) {
	snap.UpdatedAt = time.Now()
	s.v.Store(snap)
}

// Load returns the most recently published snapshot.
func (s *StatusStore) Load() StatusSnapshot {
	return s.v.Load().(StatusSnapshot)
}
