package traffic

import (
	"math"
	"testing"
	"time"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name        string
		at          time.Time
		wantDensity float64
		wantLevel   Level
	}{
		{
			// July is month 6: the seasonal clause does not fire.
			name:        "saturday 14:00 in july",
			at:          time.Date(2024, 7, 6, 14, 0, 0, 0, time.UTC),
			wantDensity: 0.35,
			wantLevel:   LevelMedium,
		},
		{
			name:        "saturday 14:00 in december",
			at:          time.Date(2024, 12, 7, 14, 0, 0, 0, time.UTC),
			wantDensity: 0.45,
			wantLevel:   LevelMedium,
		},
		{
			name:        "monday 08:00 in march",
			at:          time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
			wantDensity: 0.7,
			wantLevel:   LevelHigh,
		},
		{
			name:        "monday 08:00 in january",
			at:          time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC),
			wantDensity: 0.8,
			wantLevel:   LevelHigh,
		},
		{
			name:        "tuesday 18:00 in may",
			at:          time.Date(2024, 5, 7, 18, 0, 0, 0, time.UTC),
			wantDensity: 0.45,
			wantLevel:   LevelMedium,
		},
		{
			name:        "wednesday 03:00 in april",
			at:          time.Date(2024, 4, 3, 3, 0, 0, 0, time.UTC),
			wantDensity: 0.2,
			wantLevel:   LevelLow,
		},
		{
			name:        "sunday 19:00 in june",
			at:          time.Date(2024, 6, 2, 19, 0, 0, 0, time.UTC),
			wantDensity: 0.2,
			wantLevel:   LevelLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(Input{At: tt.at, TripMiles: 30})
			if math.Abs(got.Density-tt.wantDensity) > 1e-9 {
				t.Errorf("density = %f, want %f", got.Density, tt.wantDensity)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", got.Level, tt.wantLevel)
			}
		})
	}
}

func TestEstimate_TripMilesIgnored(t *testing.T) {
	at := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	a := Estimate(Input{At: at, TripMiles: 1})
	b := Estimate(Input{At: at, TripMiles: 500})
	if a.Density != b.Density {
		t.Errorf("density differs by trip length: %f vs %f", a.Density, b.Density)
	}
}

func TestEstimate_Factors(t *testing.T) {
	got := Estimate(Input{At: time.Date(2024, 12, 7, 14, 0, 0, 0, time.UTC)})
	if len(got.Factors) != 2 || got.Factors[0] != FactorWeekendMidday || got.Factors[1] != FactorSeasonal {
		t.Fatalf("factors = %v", got.Factors)
	}
	if got.Reasoning() != "baseline traffic plus weekend midday traffic, seasonal volume" {
		t.Errorf("reasoning = %q", got.Reasoning())
	}
	quiet := Estimate(Input{At: time.Date(2024, 4, 3, 3, 0, 0, 0, time.UTC)})
	if quiet.Reasoning() != "baseline traffic" {
		t.Errorf("reasoning = %q", quiet.Reasoning())
	}
}

func TestClassify_Boundaries(t *testing.T) {
	cases := map[float64]Level{
		0:    LevelLow,
		0.33: LevelLow,
		0.34: LevelMedium,
		0.66: LevelMedium,
		0.67: LevelHigh,
		1:    LevelHigh,
	}
	for d, want := range cases {
		if got := Classify(d); got != want {
			t.Errorf("Classify(%v) = %s, want %s", d, got, want)
		}
	}
}
