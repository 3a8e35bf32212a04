package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/serjvanilla/go-overpass"
)

const (
	DefaultOverpassEndpoint = "https://overpass-api.de/api/interpreter"
	defaultRampRadiusMeters = 16000
)

var ErrNoRamp = errors.New("no highway entrance nearby")

// RampService finds the nearest motorway junction around a point using OpenStreetMap data.
type RampService struct {
	client       *overpass.Client
	radiusMeters int
}

func NewRampService(endpoint string, timeout time.Duration) *RampService {
	if endpoint == "" {
		endpoint = DefaultOverpassEndpoint
	}
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &RampService{client: &client, radiusMeters: defaultRampRadiusMeters}
}

// NearestRampMiles returns the straight-line miles from p to the closest junction.
func (s *RampService) NearestRampMiles(ctx context.Context, p Point) (float64, error) {
	query := fmt.Sprintf(`[out:json];node["highway"="motorway_junction"](around:%d,%f,%f);out body;`,
		s.radiusMeters, p.Lat, p.Lng)

	result, err := s.executeQuery(ctx, query)
	if err != nil {
		return 0, err
	}

	var junctions []Point
	for _, node := range result.Nodes {
		junctions = append(junctions, Point{Lat: node.Lat, Lng: node.Lon})
	}
	return nearestMiles(p, junctions)
}

// executeQuery runs the blocking overpass call in the background so ctx can abandon it.
// The http client timeout bounds the abandoned request.
func (s *RampService) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	type outcome struct {
		res overpass.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.client.Query(query)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", o.err)
		}
		return &o.res, nil
	}
}

func nearestMiles(from Point, candidates []Point) (float64, error) {
	if len(candidates) == 0 {
		return 0, ErrNoRamp
	}
	best := HaversineMiles(from, candidates[0])
	for _, c := range candidates[1:] {
		if d := HaversineMiles(from, c); d < best {
			best = d
		}
	}
	return best, nil
}
