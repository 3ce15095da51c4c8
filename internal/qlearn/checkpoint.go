package qlearn

import "github.com/elevatorsim/smdp-elevator/internal/control"

// Checkpoint is the gob-serializable snapshot persisted by internal/stats:
// episode count, cumulative training reward, and the full Q-table. File
// I/O lives in internal/stats so this package stays free of any encoding
// concern; Checkpoint is just the plain-data shape it encodes.
type Checkpoint struct {
	EpisodesSoFar    int
	AccumTrainReward float64
	QValues          map[control.LearningState]qvalues
}

// Snapshot captures the agent's current state as a Checkpoint.
func (a *Agent) Snapshot() Checkpoint {
	return Checkpoint{
		EpisodesSoFar:    a.EpisodesSoFar,
		AccumTrainReward: a.AccumTrainReward,
		QValues:          a.QValues,
	}
}

// Restore loads a Checkpoint into the agent, replacing its Q-table and
// resuming the episode/reward counters.
func (a *Agent) Restore(c Checkpoint) {
	a.EpisodesSoFar = c.EpisodesSoFar
	a.AccumTrainReward = c.AccumTrainReward
	if c.QValues != nil {
		a.QValues = c.QValues
	}
}
