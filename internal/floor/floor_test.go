package floor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevatorsim/smdp-elevator/internal/floor"
)

func TestAddPassenger_TurnsOnMatchingButton(t *testing.T) {
	f := floor.NewFloor(2)
	up := floor.NewPassenger(1, 2, 4, 0)
	down := floor.NewPassenger(2, 2, 0, 0)

	f.AddPassenger(up)
	assert.True(t, f.UpButton())
	assert.False(t, f.DownButton())

	f.AddPassenger(down)
	assert.True(t, f.DownButton())
	assert.Equal(t, 1, f.UpLen())
	assert.Equal(t, 1, f.DownLen())
}

func TestDrainUp_ClearsButtonWhenEmptied(t *testing.T) {
	f := floor.NewFloor(1)
	f.AddPassenger(floor.NewPassenger(1, 1, 3, 0))
	f.AddPassenger(floor.NewPassenger(2, 1, 4, 0))

	drained := f.DrainUp(1)
	assert.Len(t, drained, 1)
	assert.True(t, f.UpButton(), "button stays on while queue non-empty")

	drained = f.DrainUp(10)
	assert.Len(t, drained, 1)
	assert.False(t, f.UpButton())
	assert.False(t, f.HasUpWaiting())
}

func TestDrainDown_NoOpOnEmptyQueue(t *testing.T) {
	f := floor.NewFloor(0)
	assert.Nil(t, f.DrainDown(5))
	assert.False(t, f.DownButton())
}

func TestAllWaiting_CombinesBothQueues(t *testing.T) {
	f := floor.NewFloor(3)
	f.AddPassenger(floor.NewPassenger(1, 3, 5, 0))
	f.AddPassenger(floor.NewPassenger(2, 3, 0, 0))

	assert.Len(t, f.AllWaiting(), 2)
}

func TestPassenger_WaitingAndBoardingTime(t *testing.T) {
	p := floor.NewPassenger(1, 2, 0, 10)
	assert.InDelta(t, 5, p.WaitingTime(15), 1e-9)

	p.Board(20)
	assert.InDelta(t, 3, p.BoardingTime(23), 1e-9)
}
