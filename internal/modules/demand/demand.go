// README: Synthetic rush-hour demand curve and the headroom/reliability scores derived from it.
package demand

import (
	"math"
	"time"
)

// Capacity is the number of vehicles a 5-minute window can absorb.
const Capacity = 100.0

const (
	baseDemand = 25.0
	amplitude  = 90.0
	peakMinute = 8*60 + 30
	sigma      = 60.0

	// utilisation above which reliability starts to decay
	reliabilityKnee = 0.7
)

// At returns the modelled vehicle demand for the clock time of t, read in t's location.
func At(t time.Time) float64 {
	m := float64(t.Hour()*60 + t.Minute())
	z := (m - peakMinute) / sigma
	return baseDemand + amplitude*math.Exp(-0.5*z*z)
}

// Headroom is the spare capacity fraction at t. It is not clamped.
func Headroom(t time.Time) float64 {
	return (Capacity - At(t)) / Capacity
}

// Reliability is 1.0 up to 70% utilisation and decays linearly above it, clamped to [0,1].
func Reliability(t time.Time) float64 {
	ratio := At(t) / Capacity
	return clamp01(1 - math.Max(0, ratio-reliabilityKnee))
}

// Align5 truncates t to the minute and floors the minute to a multiple of five.
func Align5(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()/5*5, 0, 0, t.Location())
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
