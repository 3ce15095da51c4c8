package control_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevatorsim/smdp-elevator/internal/control"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
)

func TestBestFirstAgent_StopsForSameDirectionWaiters(t *testing.T) {
	agent := control.BestFirstAgent{}
	ctx := control.DecisionContext{
		State:                  control.LearningState{Direction: domain.Up},
		StopTargetHasUpWaiters: true,
	}
	assert.Equal(t, domain.Stop, agent.GetAction(ctx))
}

func TestBestFirstAgent_StopsForOppositeWaitersWhenNoFurtherCalls(t *testing.T) {
	agent := control.BestFirstAgent{}
	ctx := control.DecisionContext{
		State:                    control.LearningState{Direction: domain.Up},
		StopTargetHasDownWaiters: true,
		HallCallsAboveStopTarget: false,
	}
	assert.Equal(t, domain.Stop, agent.GetAction(ctx))
}

func TestBestFirstAgent_ContinuesWhenFurtherCallsExist(t *testing.T) {
	agent := control.BestFirstAgent{}
	ctx := control.DecisionContext{
		State:                    control.LearningState{Direction: domain.Up},
		StopTargetHasDownWaiters: true,
		HallCallsAboveStopTarget: true,
	}
	assert.Equal(t, domain.Continue, agent.GetAction(ctx))
}

func TestBestFirstAgent_SymmetricForDown(t *testing.T) {
	agent := control.BestFirstAgent{}
	ctx := control.DecisionContext{
		State:                    control.LearningState{Direction: domain.Down},
		StopTargetHasUpWaiters:   true,
		HallCallsBelowStopTarget: false,
	}
	assert.Equal(t, domain.Stop, agent.GetAction(ctx))
}

func TestRandomAgent_OnlyReturnsStopOrContinue(t *testing.T) {
	agent := control.NewRandomAgent(rand.New(rand.NewSource(1)))
	seen := map[domain.Action]bool{}
	for i := 0; i < 200; i++ {
		a := agent.GetAction(control.DecisionContext{})
		assert.True(t, a == domain.Stop || a == domain.Continue)
		seen[a] = true
	}
	assert.Len(t, seen, 2, "expected to observe both actions over 200 draws")
}
