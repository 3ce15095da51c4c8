package traffic_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elevatorsim/smdp-elevator/internal/constants"
	"github.com/elevatorsim/smdp-elevator/internal/traffic"
)

func downPeak() traffic.DownPeak {
	return traffic.NewDownPeak(constants.DownPeakRatesPerMinute)
}

func TestRatePerMinute_LooksUpCorrectInterval(t *testing.T) {
	d := downPeak()
	// minute 22 falls in interval index 4 (22/5 = 4.4 -> 4), rate 4.5
	assert.Equal(t, 4.5, d.RatePerMinute(22*60))
}

func TestRatePerMinute_ClampsPastLastInterval(t *testing.T) {
	d := downPeak()
	assert.Equal(t, d.RatesPerMinute[11], d.RatePerMinute(61*60))
}

func TestNextInterarrival_StatisticalMean(t *testing.T) {
	d := downPeak()
	rng := rand.New(rand.NewSource(42))

	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += d.NextInterarrival(22*60, rng)
	}
	mean := sum / n
	// lambda = 4.5/5 = 0.9 per second -> expected mean 1/0.9
	assert.InDelta(t, 1/0.9, mean, 0.05)
}

func TestSampleTarget_AlwaysGroundWhenInterfloorZero(t *testing.T) {
	d := downPeak()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, d.SampleTarget(3, 5, 0, rng))
	}
}

func TestSampleTarget_NeverReturnsOrigin(t *testing.T) {
	d := downPeak()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		target := d.SampleTarget(2, 5, 1, rng)
		assert.NotEqual(t, 2, target)
		assert.GreaterOrEqual(t, target, 1)
		assert.LessOrEqual(t, target, 4)
	}
}
