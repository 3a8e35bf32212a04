package maps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"googlemaps.github.io/maps"
)

// ErrUpstreamStatus matches any non-OK status returned by the Maps API.
var ErrUpstreamStatus = errors.New("maps upstream status")

// StatusError carries the API status, e.g. ZERO_RESULTS or REQUEST_DENIED.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "maps: " + e.Status
	}
	return "maps: " + e.Status + " - " + e.Message
}

func (e *StatusError) Is(target error) bool { return target == ErrUpstreamStatus }

const metersPerMile = 1609.344

var motorwayHints = []string{"merge", "ramp", "motorway", "highway"}

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// Directions is the live driving summary shown next to an offer.
type Directions struct {
	ETAMin       int    `json:"etaMin"`
	DistanceText string `json:"distanceText"`
	NextText     string `json:"nextText"`
	// DistanceToMotorway is miles to the first merge/ramp step, nil when the route has none.
	DistanceToMotorway *float64 `json:"distanceToMotorway"`
}

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// GetDirections fetches a driving route departing now and summarises its first leg.
func (s *RouteService) GetDirections(ctx context.Context, origin, destination string) (*Directions, error) {
	r := &maps.DirectionsRequest{
		Origin:        origin,
		Destination:   destination,
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now", // live traffic
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, classify(err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, &StatusError{Status: "ZERO_RESULTS"}
	}
	d := summarizeLeg(routes[0].Legs[0])
	return &d, nil
}

// classify separates API status failures ("maps: ZERO_RESULTS - ...") from transport errors.
func classify(err error) error {
	if msg, ok := strings.CutPrefix(err.Error(), "maps: "); ok {
		status, detail, _ := strings.Cut(msg, " - ")
		return &StatusError{Status: status, Message: strings.TrimSpace(detail)}
	}
	return fmt.Errorf("maps api error: %w", err)
}

func summarizeLeg(leg *maps.Leg) Directions {
	eta := leg.Duration
	if leg.DurationInTraffic > 0 {
		eta = leg.DurationInTraffic
	}
	d := Directions{
		ETAMin:       int(math.Round(eta.Minutes())),
		DistanceText: leg.Distance.HumanReadable,
	}
	if len(leg.Steps) > 0 {
		d.NextText = stripTags(leg.Steps[0].HTMLInstructions)
	}

	acc := 0
	for _, step := range leg.Steps {
		acc += step.Distance.Meters
		instr := strings.ToLower(step.HTMLInstructions)
		for _, hint := range motorwayHints {
			if strings.Contains(instr, hint) {
				miles := math.Round(float64(acc)/metersPerMile*10) / 10
				d.DistanceToMotorway = &miles
				d.NextText = stripTags(step.HTMLInstructions)
				return d
			}
		}
	}
	return d
}

func stripTags(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}
