// Package qlearn implements the semi-Markov Q-learning controller (§4.7):
// tabular Q-values over (LearningState, Action), Boltzmann exploration
// during training, and a continuous-time discounted cost accumulator
// integrated in closed form between irregular decision epochs.
//
// The Observe-then-apply-on-next-call shape is grounded structurally (not
// algorithmically — that reference agent is function-approximation, ruled
// out by the function-approximation Non-goal) on the GoLearn QLearner's
// separation of recording a decision from applying its update on the next
// Step call, adapted here to a tabular map keyed by LearningState and
// discounted by wall-clock-since-last-decision rather than a fixed
// per-step discount factor.
package qlearn

import (
	"math"
	"math/rand"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/control"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
	"github.com/elevatorsim/smdp-elevator/internal/floor"
)

// qvalues is a 2-element cost table per LearningState: index 0 is Q(s,
// STOP), index 1 is Q(s, CONTINUE). A zero value is the correct default for
// an unseen state, matching the source's exceptional-default dictionary.
type qvalues [2]float64

func actionIndex(a domain.Action) int {
	switch a {
	case domain.Stop:
		return 0
	case domain.Continue:
		return 1
	default:
		panic(domain.NewInvariantError("q-table action index requested for a non STOP/CONTINUE action", nil).
			WithContext("action", a.String()))
	}
}

// Agent is the semi-Markov Q-learning controller. Zero value is not
// usable; construct with New.
type Agent struct {
	Index int

	QValues map[control.LearningState]qvalues

	Beta            float64 // SMDP discount rate
	AnnealingFactor float64
	IsTraining      bool
	EpisodesSoFar   int

	CostAccumulator          float64
	LastAccumulatorEventTime float64
	costAtLastDecision       float64

	DecisionTime     float64
	LastState        control.LearningState
	LastAction       domain.Action
	HasPendingUpdate bool

	EpisodeReward    float64
	AccumTrainReward float64
	AccumTestReward  float64

	Rng *rand.Rand
}

// New constructs an untrained agent. Load a prior checkpoint with
// LoadCheckpoint to resume training.
func New(index int, beta, annealingFactor float64, rng *rand.Rand) *Agent {
	return &Agent{
		Index:           index,
		QValues:         make(map[control.LearningState]qvalues),
		Beta:            beta,
		AnnealingFactor: annealingFactor,
		IsTraining:      true,
		Rng:             rng,
	}
}

// NumTrainingEpisodes derives the training episode count at which the
// annealed temperature reaches constants.FinalTemperature, per §4.7.
func NumTrainingEpisodes(annealingFactor float64) int {
	return int(math.Log(constants.FinalTemperature/constants.InitialTemperature) / math.Log(annealingFactor))
}

// Temperature is the Boltzmann exploration temperature at the current
// episode: T_k = 2 * annealingFactor^k.
func (a *Agent) Temperature() float64 {
	return constants.InitialTemperature * math.Pow(a.AnnealingFactor, float64(a.EpisodesSoFar))
}

// Alpha is the learning rate at the current episode: alpha_k = 0.01 *
// 0.99975^k.
func (a *Agent) Alpha() float64 {
	return constants.InitialAlpha * math.Pow(constants.AlphaDecay, float64(a.EpisodesSoFar))
}

func (a *Agent) qvalue(s control.LearningState, action domain.Action) float64 {
	return a.QValues[s][actionIndex(action)]
}

func (a *Agent) setQValue(s control.LearningState, action domain.Action, v float64) {
	qs := a.QValues[s]
	qs[actionIndex(action)] = v
	a.QValues[s] = qs
}

// ValueOf returns min(Q(s, STOP), Q(s, CONTINUE)) — the cost-to-go value of
// state s, using minimization since the Q-table measures cost, not reward.
func (a *Agent) ValueOf(s control.LearningState) float64 {
	qs := a.QValues[s]
	return math.Min(qs[0], qs[1])
}

// boltzmann mirrors the source's two-value softmax exactly: it returns the
// probability mass on values[0] and on values[1]. Overflow in either
// direction saturates to a one-hot distribution, matching the source's
// OverflowError fallback.
func boltzmann(values qvalues, temperature float64) (p0, p1 float64) {
	x := math.Exp(values[0] / temperature)
	if math.IsInf(x, 1) {
		return 1, 0
	}
	y := math.Exp(values[1] / temperature)
	if math.IsInf(y, 1) {
		return 0, 1
	}
	return x / (x + y), y / (x + y)
}

// probStop returns P(STOP) under the Boltzmann distribution over qs at the
// given temperature (§4.7, worked example in spec §8 scenario 3).
func probStop(qs qvalues, temperature float64) float64 {
	_, p1 := boltzmann(qs, temperature)
	return p1
}

func (a *Agent) argminAction(qs qvalues) domain.Action {
	if qs[0] == qs[1] {
		if a.Rng.Float64() < 0.5 {
			return domain.Stop
		}
		return domain.Continue
	}
	if qs[0] < qs[1] {
		return domain.Stop
	}
	return domain.Continue
}

// GetAction implements control.Controller. It is only ever called at
// unconstrained decision points (§4.3) — constrained, singleton
// legal-action sets are applied directly by the scheduler and never reach
// a controller, so no special-casing is needed here to honor "constrained
// decisions are excluded from learning".
func (a *Agent) GetAction(ctx control.DecisionContext) domain.Action {
	qs := a.QValues[ctx.State]

	var action domain.Action
	if a.IsTraining {
		if a.Rng.Float64() < probStop(qs, a.Temperature()) {
			action = domain.Stop
		} else {
			action = domain.Continue
		}
	} else {
		action = a.argminAction(qs)
	}

	if a.HasPendingUpdate {
		a.applyUpdate(ctx.Now, qs)
	}

	a.LastState = ctx.State
	a.LastAction = action
	a.DecisionTime = ctx.Now
	a.costAtLastDecision = a.CostAccumulator
	a.HasPendingUpdate = true

	return action
}

// applyUpdate performs the SMDP Bellman update for the interval since the
// last decision, discounting the next state's value by the elapsed
// wall-clock time rather than a fixed per-step factor:
//
//	Q(s_prev,a_prev) <- (1-alpha) Q(s_prev,a_prev) +
//	                    alpha * [R_accum + exp(-beta*(now-t_d_prev)) * min_a' Q(s_now,a')]
func (a *Agent) applyUpdate(now float64, nextQs qvalues) {
	reward := a.CostAccumulator - a.costAtLastDecision
	minNextQ := math.Min(nextQs[0], nextQs[1])
	sample := reward + math.Exp(-a.Beta*(now-a.DecisionTime))*minNextQ

	old := a.qvalue(a.LastState, a.LastAction)
	a.setQValue(a.LastState, a.LastAction, (1-a.Alpha())*old+a.Alpha()*sample)

	a.EpisodeReward += reward
}

// UpdateAccumulatedCost walks every currently-waiting passenger and adds
// its discounted squared-wait contribution over [lastAccumulatorEventTime,
// now] to CostAccumulator (§4.7). Callers invoke this on every
// passenger-arrival, passenger-transfer, and control event.
func (a *Agent) UpdateAccumulatedCost(now float64, waiting []*floor.Passenger) {
	t0 := a.LastAccumulatorEventTime
	t1 := now
	d := a.DecisionTime
	b := a.Beta

	var delta float64
	for _, p := range waiting {
		w0 := p.WaitingTime(t0)
		w1 := p.WaitingTime(t1)
		if math.Abs(w0) <= constants.GeneralEps {
			w0 = 0
		}
		if math.Abs(w1) <= constants.GeneralEps {
			w1 = 0
		}
		part0 := math.Exp(-b*(t0-d)) * (2/(b*b*b) + 2*w0/(b*b) + w0*w0/b)
		part1 := math.Exp(-b*(t1-d)) * (2/(b*b*b) + 2*w1/(b*b) + w1*w1/b)
		delta += (part0 - part1) * constants.CostScaleFactor
	}

	a.CostAccumulator += delta
	a.LastAccumulatorEventTime = now
}

// StartEpisode resets per-episode learning state; global Q-values and
// episode/reward totals carry over across episodes.
func (a *Agent) StartEpisode(isTraining bool) {
	a.IsTraining = isTraining
	a.CostAccumulator = 0
	a.LastAccumulatorEventTime = 0
	a.DecisionTime = 0
	a.HasPendingUpdate = false
	a.EpisodeReward = 0
}

// EndEpisode folds the episode's reward into the running training/test
// total and, if training, advances the annealing schedule.
func (a *Agent) EndEpisode() {
	if a.IsTraining {
		a.AccumTrainReward += a.EpisodeReward
		a.EpisodesSoFar++
		return
	}
	a.AccumTestReward += a.EpisodeReward
}
