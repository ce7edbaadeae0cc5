package workout

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeOneHourReference(t *testing.T) {
	res := DefaultCalibration().Compute(1000, 60, time.Hour)

	assert.InDelta(t, 1560.0, res.Distance, 1e-9)
	assert.InDelta(t, 408.0, res.Calories, 1e-9)
	assert.InDelta(t, 1.56, res.AvgSpeedKmh, 1e-9)
	assert.Equal(t, 1560.0, Round1(res.Distance))
	assert.Equal(t, 408.0, Round1(res.Calories))
}

func TestAvgSpeedFormula(t *testing.T) {
	// distance / durationMs * 1000 * 3.6, with distance in meters.
	assert.InDelta(t, 1560.0, AvgSpeedKmh(1560, 3600), 1e-9)
	assert.InDelta(t, 36.0, AvgSpeedKmh(10, 1000), 1e-9)
}

func TestZeroDurationIsDefined(t *testing.T) {
	res := DefaultCalibration().Compute(500, 70, 0)

	assert.Equal(t, 780.0, Round1(res.Distance))
	assert.Zero(t, res.Calories)
	assert.Zero(t, res.AvgSpeedKmh)
	assert.False(t, math.IsNaN(res.AvgSpeedKmh))
	assert.False(t, math.IsInf(res.AvgSpeedKmh, 0))
}

func TestNegativeDurationClamped(t *testing.T) {
	res := DefaultCalibration().Compute(10, 70, -time.Minute)
	assert.Zero(t, res.Duration)
	assert.Zero(t, res.AvgSpeedKmh)
	assert.Zero(t, res.Calories)
}

func TestDefaultWeight(t *testing.T) {
	c := DefaultCalibration()
	assert.Equal(t, 60.0, c.Weight(0))
	assert.Equal(t, 60.0, c.Weight(-5))
	assert.Equal(t, 82.5, c.Weight(82.5))
	assert.InDelta(t, 6.8*60*0.5, c.Calories(0, 0.5), 1e-9)
}

func TestCustomCalibration(t *testing.T) {
	c := Calibration{MetersPerTick: 2, MET: 5, DefaultWeightKg: 70}
	res := c.Compute(100, 0, 30*time.Minute)
	assert.InDelta(t, 200.0, res.Distance, 1e-9)
	assert.InDelta(t, 175.0, res.Calories, 1e-9)
	assert.InDelta(t, 0.4, res.AvgSpeedKmh, 1e-9)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 1.3, Round1(1.25))
	assert.Equal(t, -1.3, Round1(-1.25))
	assert.Equal(t, 0.0, Round1(0.04))
	assert.Equal(t, 12.3, Round1(12.34))
}
