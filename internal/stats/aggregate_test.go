package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevatorsim/smdp-elevator/internal/world"
)

func TestAggregate_EmptyEpisode(t *testing.T) {
	avg := Aggregate(4, nil)
	assert.Equal(t, 4, avg.Episode)
	assert.Zero(t, avg.AvgWaitingTime)
	assert.Zero(t, avg.FractionWaitingOver60s)
}

func TestAggregate_ComputesAveragesAndOver60Fraction(t *testing.T) {
	completed := []world.PassengerRecord{
		{ArrivalTime: 0, BoardedTime: 10, ExitTime: 40},  // wait 10, board 30
		{ArrivalTime: 0, BoardedTime: 90, ExitTime: 120}, // wait 90 (>60), board 30
	}

	avg := Aggregate(1, completed)

	assert.InDelta(t, 50.0, avg.AvgWaitingTime, 1e-9)
	assert.InDelta(t, 30.0, avg.AvgBoardingTime, 1e-9)
	assert.InDelta(t, 0.5, avg.FractionWaitingOver60s, 1e-9)
}
