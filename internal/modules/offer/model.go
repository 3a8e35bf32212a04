// README: Offer value objects shared by every offer source.
package offer

import (
	"strings"
	"time"

	"ease/internal/modules/horizon"
	"ease/internal/modules/traffic"
)

type Direction string

const (
	DirectionOnTime Direction = "ONTIME"
	DirectionEarly  Direction = "EARLY"
	DirectionLate   Direction = "LATE"
)

// LaneFamily is the routing hint attached to every offer.
type LaneFamily string

const (
	LaneLeftLong  LaneFamily = "LEFT_LONG"
	LaneMiddle    LaneFamily = "MIDDLE"
	LaneRightEdge LaneFamily = "RIGHT_EDGE"
)

var laneAliases = map[string]LaneFamily{
	"LEFT_LONG":    LaneLeftLong,
	"LEFT/LONG":    LaneLeftLong,
	"MIDDLE":       LaneMiddle,
	"MIDDLE/MIXED": LaneMiddle,
	"RIGHT_EDGE":   LaneRightEdge,
	"RIGHT/SHORT":  LaneRightEdge,
	"RIGHT_SHORT":  LaneRightEdge,
}

// ParseLaneFamily maps canonical and legacy lane labels onto the canonical enum.
func ParseLaneFamily(s string) (LaneFamily, bool) {
	l, ok := laneAliases[strings.ToUpper(strings.TrimSpace(s))]
	return l, ok
}

type Shift struct {
	Direction Direction `json:"direction"`
	Minutes   int       `json:"minutes"`
}

type Incentives struct {
	Credits int `json:"credits"`
}

type Offer struct {
	ID          string     `json:"id"`
	WindowStart time.Time  `json:"windowStart"`
	WindowEnd   time.Time  `json:"windowEnd"`
	Reliability float64    `json:"reliability"`
	Headroom    float64    `json:"headroom"`
	LaneFamily  LaneFamily `json:"laneFamily"`
	Shift       Shift      `json:"shift"`
	Incentives  Incentives `json:"incentives"`
}

// Traffic summarises congestion at the base time of an offer set.
type Traffic struct {
	Level     traffic.Level `json:"level"`
	Density   float64       `json:"density"`
	Reasoning string        `json:"reasoning"`
}

// SourceKind tags which engine produced an offer set.
type SourceKind string

const (
	SourceEngine SourceKind = "engine"
	SourceAI     SourceKind = "ai"
)

// OfferSet is built fresh per request and not mutated afterwards.
type OfferSet struct {
	Traffic        Traffic                 `json:"traffic"`
	Parent         Offer                   `json:"parent"`
	Earlier        []Offer                 `json:"earlier"`
	Later          []Offer                 `json:"later"`
	LaneAdvice     LaneFamily              `json:"laneAdvice"`
	Recommendation *horizon.Recommendation `json:"recommendation,omitempty"`
	Source         SourceKind              `json:"source"`
}

// All returns parent, earlier and later offers in display order.
func (s *OfferSet) All() []Offer {
	out := make([]Offer, 0, 1+len(s.Earlier)+len(s.Later))
	out = append(out, s.Parent)
	out = append(out, s.Earlier...)
	return append(out, s.Later...)
}

type Flex struct {
	On       bool `json:"on"`
	MinShift int  `json:"minShift"`
	MaxShift int  `json:"maxShift"`
}

// DefaultFlex matches the planner form defaults.
var DefaultFlex = Flex{On: true, MinShift: 15, MaxShift: 60}

// Request is the input every offer source accepts.
type Request struct {
	Origin         string
	Destination    string
	DesiredArrival time.Time
	TripMiles      float64
	// ExitMiles is the distance from the origin to the nearest highway entrance, if known.
	ExitMiles *float64
	Flex      Flex
	Horizon   horizon.Mode
}
