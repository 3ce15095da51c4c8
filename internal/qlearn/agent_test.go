package qlearn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevatorsim/smdp-elevator/internal/control"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
	"github.com/elevatorsim/smdp-elevator/internal/floor"
	"github.com/elevatorsim/smdp-elevator/internal/qlearn"
)

func TestBoltzmannDeterminism_ScenarioThree(t *testing.T) {
	// §8 scenario 3: Q_STOP=1.0, Q_CONTINUE=0.0, T=2.0 -> P(STOP) ≈ 0.3775.
	a := qlearn.New(0, 0.01, 0.9997, rand.New(rand.NewSource(1)))
	a.QValues[control.LearningState{Floor: 2}] = [2]float64{} // placeholder to document key shape

	state := control.LearningState{Floor: 2}
	// The Boltzmann helpers are unexported, so this recomputes P(STOP) in
	// the form probStop uses (the softmax mass on the CONTINUE value, which
	// equals exp(-Q_STOP/T) / (exp(-Q_STOP/T) + exp(-Q_CONTINUE/T))) and
	// checks it against the worked value. GetAction itself is not called.
	qStop, qContinue := 1.0, 0.0
	temperature := 2.0

	x := math.Exp(qStop / temperature)
	y := math.Exp(qContinue / temperature)
	probStop := y / (x + y)

	assert.InDelta(t, 0.3775, probStop, 1e-4)

	_ = state
	_ = a
}

func TestNumTrainingEpisodes_MatchesAnnealingSchedule(t *testing.T) {
	n := qlearn.NumTrainingEpisodes(0.9997)
	assert.Greater(t, n, 0)

	// temperature at n should be close to the final temperature target
	temp := 2.0 * math.Pow(0.9997, float64(n))
	assert.InDelta(t, 0.01, temp, 0.01)
}

func TestValueOf_DefaultsToZeroForUnseenState(t *testing.T) {
	a := qlearn.New(0, 0.01, 0.9997, rand.New(rand.NewSource(1)))
	assert.Zero(t, a.ValueOf(control.LearningState{Floor: 3}))
}

func TestGetAction_AppliesBellmanUpdateOnSecondDecision(t *testing.T) {
	a := qlearn.New(0, 0.5, 0.9997, rand.New(rand.NewSource(7)))
	a.IsTraining = false // deterministic argmin path

	s1 := control.LearningState{Floor: 1, Direction: domain.Up}
	s2 := control.LearningState{Floor: 2, Direction: domain.Up}

	first := a.GetAction(control.DecisionContext{State: s1, Now: 0})
	assert.True(t, first == domain.Stop || first == domain.Continue)

	p := floor.NewPassenger(1, 1, 0, 0)
	a.UpdateAccumulatedCost(2, []*floor.Passenger{p})
	assert.Greater(t, a.CostAccumulator, 0.0)

	a.GetAction(control.DecisionContext{State: s2, Now: 5})

	// the (s1, first) entry should have moved away from its zero default
	updated := a.QValues[s1]
	assert.NotEqual(t, [2]float64{0, 0}, updated)
}

func TestEndEpisode_AdvancesEpisodeCountOnlyWhileTraining(t *testing.T) {
	a := qlearn.New(0, 0.01, 0.9997, rand.New(rand.NewSource(1)))
	a.StartEpisode(true)
	a.EndEpisode()
	assert.Equal(t, 1, a.EpisodesSoFar)

	a.StartEpisode(false)
	a.EndEpisode()
	assert.Equal(t, 1, a.EpisodesSoFar, "evaluation episodes must not advance annealing")
}

func TestSnapshotRestore_RoundTrips(t *testing.T) {
	a := qlearn.New(0, 0.01, 0.9997, rand.New(rand.NewSource(1)))
	a.EpisodesSoFar = 42
	a.AccumTrainReward = 123.5

	snap := a.Snapshot()

	b := qlearn.New(0, 0.01, 0.9997, rand.New(rand.NewSource(1)))
	b.Restore(snap)

	assert.Equal(t, 42, b.EpisodesSoFar)
	assert.Equal(t, 123.5, b.AccumTrainReward)
}
