package motion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/domain"
	"github.com/elevatorsim/smdp-elevator/internal/motion"
)

const dt = 0.01

func TestStep_Idle_StaysAtRest(t *testing.T) {
	b := motion.NewBody(3)
	res := motion.Step(&b, domain.Idle, domain.Stopped, 0, dt)

	assert.Equal(t, domain.Idle, res.Phase)
	assert.Zero(t, b.Vel)
	assert.Zero(t, b.Accel)
	assert.InDelta(t, 3*constants.FloorHeight, b.Pos, 1e-9)
}

func TestStep_Accelerating_NeverExceedsMaxSpeed(t *testing.T) {
	b := motion.NewBody(0)
	now := 0.0
	for i := 0; i < 1000; i++ {
		motion.Step(&b, domain.Accelerating, domain.Up, now, dt)
		now += dt
		assert.LessOrEqual(t, b.Vel, constants.MaxSpeed+constants.GeneralEps)
	}
}

func TestStep_Accelerating_PromotesToFullSpeed(t *testing.T) {
	b := motion.NewBody(0)
	now := 0.0
	var promoted bool
	for i := 0; i < 100000 && !promoted; i++ {
		res := motion.Step(&b, domain.Accelerating, domain.Up, now, dt)
		now += dt
		if res.Phase == domain.FullSpeed {
			promoted = true
		}
	}
	assert.True(t, promoted, "expected acceleration phase to eventually promote to full speed")
	assert.InDelta(t, constants.MaxSpeed, b.Vel, constants.GeneralEps)
}

func TestStep_FullSpeed_ConstantVelocity(t *testing.T) {
	b := motion.NewBody(0)
	b.Vel = constants.MaxSpeed
	b.Pos = 0.5
	res := motion.Step(&b, domain.FullSpeed, domain.Up, 0, dt)

	assert.Equal(t, domain.FullSpeed, res.Phase)
	assert.InDelta(t, constants.MaxSpeed, b.Vel, 1e-9)
	assert.Zero(t, b.Accel)
}

func TestStep_CrossesFloor_SnapsPositionAndClearsFlags(t *testing.T) {
	b := motion.NewBody(0)
	b.Vel = constants.MaxSpeed
	b.Pos = constants.FloorHeight - 0.001 // one tick from crossing

	res := motion.Step(&b, domain.FullSpeed, domain.Up, 0, dt)

	assert.True(t, res.CrossedFloor)
	assert.True(t, res.ClearDecisions)
	assert.Equal(t, 1, b.Floor)
	assert.InDelta(t, constants.FloorHeight, b.Pos, 1e-9)
}

func TestStep_CrossesFloorWhileDecelerating_DoesNotClearFlags(t *testing.T) {
	b := motion.NewBody(0)
	b.Vel = 0.1
	b.Pos = constants.FloorHeight - 0.0005

	res := motion.Step(&b, domain.FullSpeedDecelerating, domain.Up, 0, dt)

	assert.True(t, res.CrossedFloor)
	assert.False(t, res.ClearDecisions)
}

func TestStep_DownDirection_DecrementsFloor(t *testing.T) {
	b := motion.NewBody(3)
	b.Vel = -constants.MaxSpeed
	b.Pos = 3*constants.FloorHeight - (constants.FloorHeight - 0.001)

	res := motion.Step(&b, domain.FullSpeed, domain.Down, 0, dt)

	assert.True(t, res.CrossedFloor)
	assert.Equal(t, 2, b.Floor)
}
