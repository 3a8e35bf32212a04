package offer

import (
	"math"
	"testing"
	"time"

	"ease/internal/modules/demand"
)

func monday(h, m int) time.Time {
	return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC)
}

func starts(offers []Offer) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.WindowStart.Format("15:04"))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild_PeakArrival(t *testing.T) {
	set := Build(BuildInput{
		Origin: "A", Destination: "B",
		DesiredArrival: monday(8, 30),
		TripMiles:      30,
		ExitMiles:      DefaultExitMiles,
		Flex:           DefaultFlex,
	})

	p := set.Parent
	if !p.WindowStart.Equal(monday(8, 30)) || !p.WindowEnd.Equal(monday(8, 35)) {
		t.Fatalf("parent window = %s..%s, want 08:30..08:35", p.WindowStart, p.WindowEnd)
	}
	if math.Abs(p.Headroom-(-0.15)) > 1e-9 || math.Abs(p.Reliability-0.55) > 1e-9 {
		t.Errorf("parent scores = (%f, %f), want (-0.15, 0.55)", p.Headroom, p.Reliability)
	}
	if p.Incentives.Credits != 0 {
		t.Errorf("parent credits = %d, want 0", p.Incentives.Credits)
	}
	if p.Shift.Direction != DirectionOnTime || p.Shift.Minutes != 0 {
		t.Errorf("parent shift = %+v", p.Shift)
	}
	if set.LaneAdvice != LaneMiddle || p.LaneFamily != LaneMiddle {
		t.Errorf("lane = %s, want MIDDLE for 30 miles", set.LaneAdvice)
	}

	// only windows 50+ minutes from the peak clear the headroom threshold
	if got := starts(set.Earlier); !equalStrings(got, []string{"07:40", "07:35"}) {
		t.Errorf("earlier = %v", got)
	}
	if got := starts(set.Later); !equalStrings(got, []string{"09:20", "09:25"}) {
		t.Errorf("later = %v", got)
	}
	for _, o := range set.Earlier {
		if o.Shift.Direction != DirectionEarly || o.Shift.Minutes >= 0 {
			t.Errorf("earlier offer shift = %+v", o.Shift)
		}
	}
	for _, o := range set.Later {
		if o.Shift.Direction != DirectionLate || o.Shift.Minutes <= 0 {
			t.Errorf("later offer shift = %+v", o.Shift)
		}
	}
}

func TestBuild_DegenerateFlexWindow(t *testing.T) {
	set := Build(BuildInput{
		Origin: "A", Destination: "B",
		DesiredArrival: monday(8, 30),
		ExitMiles:      DefaultExitMiles,
		Flex:           Flex{On: true, MinShift: 15, MaxShift: 15},
	})
	// 08:15 and 08:45 sit too close to the peak to qualify
	if len(set.Earlier) != 0 || len(set.Later) != 0 {
		t.Errorf("got earlier=%v later=%v, want both empty", starts(set.Earlier), starts(set.Later))
	}

	off := Build(BuildInput{
		Origin: "A", Destination: "B",
		DesiredArrival: monday(14, 0),
		ExitMiles:      DefaultExitMiles,
		Flex:           Flex{On: true, MinShift: 15, MaxShift: 15},
	})
	if got := starts(off.Earlier); !equalStrings(got, []string{"13:45"}) {
		t.Errorf("earlier = %v, want [13:45]", got)
	}
	if got := starts(off.Later); !equalStrings(got, []string{"14:15"}) {
		t.Errorf("later = %v, want [14:15]", got)
	}
}

func TestBuild_FlexOff(t *testing.T) {
	set := Build(BuildInput{
		Origin: "A", Destination: "B",
		DesiredArrival: monday(14, 3),
		ExitMiles:      DefaultExitMiles,
		Flex:           Flex{On: false, MinShift: 15, MaxShift: 60},
	})
	if n := len(set.All()); n != 1 {
		t.Fatalf("len(All()) = %d, want 1", n)
	}
	if !set.Parent.WindowStart.Equal(monday(14, 0)) {
		t.Errorf("parent start = %s, want aligned 14:00", set.Parent.WindowStart)
	}
}

func TestBuild_Properties(t *testing.T) {
	flexes := []Flex{
		{On: true, MinShift: 0, MaxShift: 0},
		{On: true, MinShift: 0, MaxShift: 30},
		{On: true, MinShift: 15, MaxShift: 60},
		{On: true, MinShift: 30, MaxShift: 120},
	}
	for h := 0; h < 24; h++ {
		for _, f := range flexes {
			in := BuildInput{Origin: "A", Destination: "B", DesiredArrival: monday(h, 17), ExitMiles: 3, Flex: f}
			set := Build(in)
			base := demand.Align5(in.DesiredArrival)

			if len(set.Earlier) > maxPerSide || len(set.Later) > maxPerSide {
				t.Fatalf("%02d:17 %+v: too many offers", h, f)
			}
			for _, o := range set.All() {
				if o.WindowEnd.Sub(o.WindowStart) != 5*time.Minute {
					t.Fatalf("window span = %s", o.WindowEnd.Sub(o.WindowStart))
				}
				if o.WindowStart.Minute()%5 != 0 || o.WindowStart.Second() != 0 {
					t.Fatalf("window %s not aligned", o.WindowStart)
				}
				if o.Reliability < 0 || o.Reliability > 1 || o.Incentives.Credits < 0 {
					t.Fatalf("bad scores %+v", o)
				}
				if o.LaneFamily != LaneRightEdge {
					t.Fatalf("lane = %s, want RIGHT_EDGE near an exit", o.LaneFamily)
				}
			}
			for _, o := range set.Earlier {
				d := int(base.Sub(o.WindowStart).Minutes())
				if !o.WindowStart.Before(base) || d < f.MinShift || d > f.MaxShift {
					t.Fatalf("earlier %s outside flex %+v of %s", o.WindowStart, f, base)
				}
			}
			for _, o := range set.Later {
				d := int(o.WindowStart.Sub(base).Minutes())
				if !o.WindowStart.After(base) || d < f.MinShift || d > f.MaxShift {
					t.Fatalf("later %s outside flex %+v of %s", o.WindowStart, f, base)
				}
			}
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	in := BuildInput{Origin: "A", Destination: "B", DesiredArrival: monday(17, 40), TripMiles: 12, ExitMiles: 8, Flex: DefaultFlex}
	a, b := Build(in), Build(in)
	if len(a.All()) != len(b.All()) {
		t.Fatalf("offer counts differ")
	}
	for i, o := range a.All() {
		if o != b.All()[i] {
			t.Errorf("offer %d differs: %+v vs %+v", i, o, b.All()[i])
		}
	}
}

func TestBuildAround(t *testing.T) {
	set := BuildAround(BuildInput{
		Origin: "A", Destination: "B",
		DesiredArrival: monday(10, 0),
		ExitMiles:      DefaultExitMiles,
		Flex:           DefaultFlex,
	}, []int{15, 30, 45})
	if got := starts(set.Earlier); !equalStrings(got, []string{"09:45", "09:30"}) {
		t.Errorf("earlier = %v", got)
	}
	if got := starts(set.Later); !equalStrings(got, []string{"10:15", "10:30"}) {
		t.Errorf("later = %v", got)
	}

	// 08:15 and 08:45 fail the thresholds but are still offered
	peak := BuildAround(BuildInput{DesiredArrival: monday(8, 30), ExitMiles: 8, Flex: DefaultFlex}, []int{0, 15})
	if got := starts(peak.Earlier); !equalStrings(got, []string{"08:15"}) {
		t.Errorf("earlier = %v", got)
	}
}

func TestLaneFor(t *testing.T) {
	tests := []struct {
		miles, exit float64
		want        LaneFamily
	}{
		{31, 1, LaneLeftLong},
		{30, 8, LaneMiddle},
		{10, 4.9, LaneRightEdge},
		{10, 5, LaneMiddle},
	}
	for _, tt := range tests {
		if got := LaneFor(tt.miles, tt.exit); got != tt.want {
			t.Errorf("LaneFor(%v, %v) = %s, want %s", tt.miles, tt.exit, got, tt.want)
		}
	}
}

func TestCreditsFor(t *testing.T) {
	tests := []struct {
		h    float64
		want int
	}{
		{-0.15, 0},
		{0, 0},
		{0.12, 0},
		{0.13, 1},
		{0.5, 2},
		{0.75, 3},
	}
	for _, tt := range tests {
		if got := CreditsFor(tt.h); got != tt.want {
			t.Errorf("CreditsFor(%v) = %d, want %d", tt.h, got, tt.want)
		}
	}
}

func TestOfferID(t *testing.T) {
	start := monday(8, 30)
	end := start.Add(5 * time.Minute)
	a := OfferID("A", "B", start, end)
	if a != OfferID("A", "B", start.In(time.FixedZone("X", 3600)), end) {
		t.Errorf("id depends on the location of equal instants")
	}
	if a == OfferID("A", "C", start, end) {
		t.Errorf("id ignores destination")
	}
	if a == OfferID("A", "B", end, end.Add(5*time.Minute)) {
		t.Errorf("id ignores window")
	}
}

func TestParseLaneFamily(t *testing.T) {
	tests := map[string]LaneFamily{
		"LEFT/LONG":    LaneLeftLong,
		"middle/mixed": LaneMiddle,
		" RIGHT/SHORT": LaneRightEdge,
		"RIGHT_SHORT":  LaneRightEdge,
		"RIGHT_EDGE":   LaneRightEdge,
	}
	for in, want := range tests {
		if got, ok := ParseLaneFamily(in); !ok || got != want {
			t.Errorf("ParseLaneFamily(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := ParseLaneFamily("CENTER"); ok {
		t.Errorf("unknown lane accepted")
	}
}
