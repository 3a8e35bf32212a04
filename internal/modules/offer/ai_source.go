package offer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ease/internal/ai"
	"ease/internal/modules/traffic"
)

const aiWindowSpan = 15 * time.Minute

// AISource asks a language model for the offer plan. Windows are centered on
// desiredArrival plus the model's minute offsets and are not aligned to the 5-minute grid.
type AISource struct {
	planner ai.OfferPlanner
	now     func() time.Time
	loc     *time.Location
}

// NewAISource wraps planner. A nil planner makes every call fail with ErrNoAPIKey.
func NewAISource(planner ai.OfferPlanner, now func() time.Time, loc *time.Location) *AISource {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &AISource{planner: planner, now: now, loc: loc}
}

func (s *AISource) Generate(ctx context.Context, req Request) (*OfferSet, error) {
	if err := Validate(req, s.now().In(s.loc)); err != nil {
		return nil, err
	}
	if s.planner == nil {
		return nil, ErrNoAPIKey
	}

	desired := req.DesiredArrival.In(s.loc)
	plan, err := s.planner.PlanOffers(ctx, ai.OfferQuery{
		Origin:         req.Origin,
		Dest:           req.Destination,
		DesiredArrival: desired.Format("2006-01-02T15:04"),
		TripMiles:      req.TripMiles,
		Flex:           ai.QueryFlex{On: req.Flex.On, MinShift: req.Flex.MinShift, MaxShift: req.Flex.MaxShift},
		Horizon:        string(req.Horizon),
	})
	if err != nil {
		if errors.Is(err, ai.ErrMissingAPIKey) {
			return nil, ErrNoAPIKey
		}
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: empty plan", ErrAIUnavailable)
	}

	exitMiles := float64(DefaultExitMiles)
	if req.ExitMiles != nil {
		exitMiles = *req.ExitMiles
	}
	lane, ok := ParseLaneFamily(plan.LaneFamily)
	if !ok {
		lane = LaneFor(req.TripMiles, exitMiles)
	}

	mk := func(minutes int, sc ai.WindowScore) Offer {
		center := desired.Add(time.Duration(minutes) * time.Minute)
		start := center.Add(-aiWindowSpan / 2)
		end := start.Add(aiWindowSpan)
		h := clamp01(sc.Headroom)
		dir := DirectionOnTime
		switch {
		case minutes < 0:
			dir = DirectionEarly
		case minutes > 0:
			dir = DirectionLate
		}
		return Offer{
			ID:          OfferID(req.Origin, req.Destination, start, end),
			WindowStart: start,
			WindowEnd:   end,
			Reliability: clamp01(sc.Reliability),
			Headroom:    h,
			LaneFamily:  lane,
			Shift:       Shift{Direction: dir, Minutes: minutes},
			Incentives:  Incentives{Credits: stepCredits(h)},
		}
	}

	set := &OfferSet{
		Traffic:    planTraffic(plan.Traffic),
		Parent:     mk(0, plan.Parent),
		Earlier:    []Offer{},
		Later:      []Offer{},
		LaneAdvice: lane,
		Source:     SourceAI,
	}
	if !req.Flex.On {
		return set, nil
	}
	for _, e := range plan.Earlier {
		if e.Minutes < 0 && len(set.Earlier) < maxPerSide {
			set.Earlier = append(set.Earlier, mk(e.Minutes, ai.WindowScore{Reliability: e.Reliability, Headroom: e.Headroom}))
		}
	}
	for _, l := range plan.Later {
		if l.Minutes > 0 && len(set.Later) < maxPerSide {
			set.Later = append(set.Later, mk(l.Minutes, ai.WindowScore{Reliability: l.Reliability, Headroom: l.Headroom}))
		}
	}
	return set, nil
}

func planTraffic(t ai.TrafficAssessment) Traffic {
	density := clamp01(t.Density)
	level := traffic.Level(strings.ToUpper(strings.TrimSpace(t.Level)))
	switch level {
	case traffic.LevelLow, traffic.LevelMedium, traffic.LevelHigh:
	default:
		level = traffic.Classify(density)
	}
	return Traffic{Level: level, Density: density, Reasoning: t.Reasoning}
}

// stepCredits is the incentive table used for model-scored windows.
func stepCredits(headroom float64) int {
	switch {
	case headroom > 0.7:
		return 3
	case headroom > 0.5:
		return 2
	case headroom > 0.3:
		return 1
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
