// Package workout converts raw sensor ticks and elapsed time into workout metrics.
package workout

import (
	"math"
	"time"
)

// Calibration holds the constants of the metric formulas.
type Calibration struct {
	MetersPerTick   float64
	MET             float64
	DefaultWeightKg float64
}

// DefaultCalibration matches the factory calibration of the kiosk bikes.
func DefaultCalibration() Calibration {
	return Calibration{
		MetersPerTick:   1.56,
		MET:             6.8,
		DefaultWeightKg: 60,
	}
}

// Result is the unrounded outcome of a completed workout.
type Result struct {
	TickCount   int64
	Distance    float64 // meters
	Calories    float64 // kcal
	AvgSpeedKmh float64
	Duration    time.Duration
}

// Distance returns the meters covered for the given tick count.
func (c Calibration) Distance(ticks int64) float64 {
	return float64(ticks) * c.MetersPerTick
}

// Calories applies the MET approximation. Non-positive weights use DefaultWeightKg.
func (c Calibration) Calories(weightKg, durationHours float64) float64 {
	return c.MET * c.Weight(weightKg) * durationHours
}

// Weight returns weightKg, or DefaultWeightKg when it is not positive.
func (c Calibration) Weight(weightKg float64) float64 {
	if weightKg <= 0 {
		return c.DefaultWeightKg
	}
	return weightKg
}

// AvgSpeedKmh converts meters over milliseconds into km/h. Zero duration yields 0.
func AvgSpeedKmh(distanceM float64, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return distanceM / float64(durationMs) * 1000 * 3.6
}

// Compute derives every metric for a finished workout. Negative durations count as zero.
func (c Calibration) Compute(ticks int64, weightKg float64, duration time.Duration) Result {
	if duration < 0 {
		duration = 0
	}
	distance := c.Distance(ticks)
	return Result{
		TickCount:   ticks,
		Distance:    distance,
		Calories:    c.Calories(weightKg, duration.Hours()),
		AvgSpeedKmh: AvgSpeedKmh(distance, duration.Milliseconds()),
		Duration:    duration,
	}
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
