// README: Deterministic offer construction on top of the demand model.
package offer

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"ease/internal/modules/demand"
)

const (
	// a candidate qualifies with this much headroom or this much reliability
	minHeadroom    = 0.10
	minReliability = 0.85

	maxPerSide = 2
	scanStep   = 5

	windowSpan = 5 * time.Minute

	longTripMiles    = 30
	nearExitMiles    = 5
	DefaultExitMiles = 8
)

var offerNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("travelease.offer"))

// OfferID derives a stable identifier from the trip endpoints and window bounds.
func OfferID(origin, destination string, start, end time.Time) string {
	key := origin + "|" + destination + "|" + start.UTC().Format(time.RFC3339) + "|" + end.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(offerNamespace, []byte(key)).String()
}

// LaneFor picks the lane family from trip length and distance to the nearest entrance.
func LaneFor(tripMiles, exitMiles float64) LaneFamily {
	switch {
	case tripMiles > longTripMiles:
		return LaneLeftLong
	case exitMiles < nearExitMiles:
		return LaneRightEdge
	default:
		return LaneMiddle
	}
}

// CreditsFor converts headroom into incentive credits: round(headroom*4), never negative.
func CreditsFor(headroom float64) int {
	return int(math.Max(0, math.Round(headroom*4)))
}

type BuildInput struct {
	Origin         string
	Destination    string
	DesiredArrival time.Time
	TripMiles      float64
	ExitMiles      float64
	Flex           Flex
}

func (in BuildInput) maker(base time.Time) func(time.Time) Offer {
	lane := LaneFor(in.TripMiles, in.ExitMiles)
	return func(t time.Time) Offer {
		end := t.Add(windowSpan)
		h := demand.Headroom(t)
		dir := DirectionOnTime
		switch {
		case t.Before(base):
			dir = DirectionEarly
		case t.After(base):
			dir = DirectionLate
		}
		return Offer{
			ID:          OfferID(in.Origin, in.Destination, t, end),
			WindowStart: t,
			WindowEnd:   end,
			Reliability: demand.Reliability(t),
			Headroom:    h,
			LaneFamily:  lane,
			Shift:       Shift{Direction: dir, Minutes: int(math.Round(t.Sub(base).Minutes()))},
			Incentives:  Incentives{Credits: CreditsFor(h)},
		}
	}
}

// Build returns the parent offer at the 5-minute aligned arrival and, when flex is on, up
// to two qualifying earlier and later windows, nearest first.
func Build(in BuildInput) OfferSet {
	base := demand.Align5(in.DesiredArrival)
	mk := in.maker(base)
	set := OfferSet{
		Parent:     mk(base),
		Earlier:    []Offer{},
		Later:      []Offer{},
		LaneAdvice: LaneFor(in.TripMiles, in.ExitMiles),
		Source:     SourceEngine,
	}
	if !in.Flex.On {
		return set
	}
	set.Earlier = collect(base, -in.Flex.MaxShift, -in.Flex.MinShift, mk)
	set.Later = collect(base, in.Flex.MinShift, in.Flex.MaxShift, mk)
	return set
}

func collect(base time.Time, from, to int, mk func(time.Time) Offer) []Offer {
	var picked []time.Time
	for m := from; m <= to; m += scanStep {
		if m == 0 {
			continue // the base is the parent
		}
		t := base.Add(time.Duration(m) * time.Minute)
		if demand.Headroom(t) >= minHeadroom || demand.Reliability(t) >= minReliability {
			picked = append(picked, t)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return absDuration(picked[i].Sub(base)) < absDuration(picked[j].Sub(base))
	})
	out := make([]Offer, 0, maxPerSide)
	for i := 0; i < len(picked) && i < maxPerSide; i++ {
		out = append(out, mk(picked[i]))
	}
	return out
}

// BuildAround builds offers at fixed minute offsets on both sides of a base chosen by a
// horizon scan. Offsets are not filtered by the qualification thresholds.
func BuildAround(in BuildInput, offsets []int) OfferSet {
	base := demand.Align5(in.DesiredArrival)
	mk := in.maker(base)
	set := OfferSet{
		Parent:     mk(base),
		Earlier:    []Offer{},
		Later:      []Offer{},
		LaneAdvice: LaneFor(in.TripMiles, in.ExitMiles),
		Source:     SourceEngine,
	}
	if !in.Flex.On {
		return set
	}
	for _, delta := range offsets {
		if delta <= 0 || len(set.Later) == maxPerSide {
			continue
		}
		d := time.Duration(delta) * time.Minute
		set.Earlier = append(set.Earlier, mk(base.Add(-d)))
		set.Later = append(set.Later, mk(base.Add(d)))
	}
	return set
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
