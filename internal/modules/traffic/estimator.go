// README: Calendar-based congestion heuristic used by horizon scans and traffic summaries.
package traffic

import (
	"math"
	"strings"
	"time"
)

type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Factor names a bonus that contributed to an estimate.
type Factor string

const (
	FactorWeekdayPeak   Factor = "weekday_peak"
	FactorWeekendMidday Factor = "weekend_midday"
	FactorSeasonal      Factor = "seasonal"
)

const (
	baseDensity   = 0.2
	peakWeight    = 0.5
	weekendBonus  = 0.15
	seasonalBonus = 0.10

	highThreshold   = 0.66
	mediumThreshold = 0.33
)

// Input is what the estimator looks at. TripMiles is carried for callers but does not
// change the density.
type Input struct {
	At        time.Time
	TripMiles float64
}

type Result struct {
	Density float64  `json:"density"`
	Level   Level    `json:"level"`
	Factors []Factor `json:"factors,omitempty"`
}

// Estimate computes congestion from the local calendar fields of in.At.
func Estimate(in Input) Result {
	dow := in.At.Weekday()
	hour := float64(in.At.Hour())
	month := int(in.At.Month()) - 1 // zero-based, Jan = 0

	density := baseDensity
	var factors []Factor

	if dow >= time.Monday && dow <= time.Friday {
		am := math.Max(0, 1-math.Abs(hour-8)/2)
		pm := math.Max(0, 1-math.Abs(hour-17)/2)
		if peak := math.Max(am, pm); peak > 0 {
			density += peakWeight * peak
			factors = append(factors, FactorWeekdayPeak)
		}
	}
	if (dow == time.Sunday || dow == time.Saturday) && hour >= 12 && hour <= 18 {
		density += weekendBonus
		factors = append(factors, FactorWeekendMidday)
	}
	// NOTE: covers Aug-Jan, not only winter; kept as the product currently ships it.
	if month >= 7 || month <= 1 {
		density += seasonalBonus
		factors = append(factors, FactorSeasonal)
	}

	density = math.Max(0, math.Min(1, density))
	return Result{Density: density, Level: Classify(density), Factors: factors}
}

// Classify maps a density to a congestion level.
func Classify(density float64) Level {
	switch {
	case density > highThreshold:
		return LevelHigh
	case density > mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

var factorText = map[Factor]string{
	FactorWeekdayPeak:   "weekday rush hour",
	FactorWeekendMidday: "weekend midday traffic",
	FactorSeasonal:      "seasonal volume",
}

// Reasoning renders the contributing factors as a short sentence.
func (e Result) Reasoning() string {
	if len(e.Factors) == 0 {
		return "baseline traffic"
	}
	parts := make([]string, 0, len(e.Factors))
	for _, f := range e.Factors {
		parts = append(parts, factorText[f])
	}
	return "baseline traffic plus " + strings.Join(parts, ", ")
}
