package trip

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"ease/internal/maps"
	"ease/internal/modules/offer"
)

type fakeGeocoder struct {
	mu     sync.Mutex
	points map[string]maps.Point
	calls  int
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (maps.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.points[address]
	if !ok {
		return maps.Point{}, maps.ErrNoGeocodeResult
	}
	return p, nil
}

type fakeRamps struct {
	miles float64
	err   error
}

func (f fakeRamps) NearestRampMiles(context.Context, maps.Point) (float64, error) {
	return f.miles, f.err
}

var (
	loop    = maps.Point{Lat: 41.8781, Lng: -87.6298}
	ohare   = maps.Point{Lat: 41.9742, Lng: -87.9073}
	evanstn = maps.Point{Lat: 42.0451, Lng: -87.6877}
)

func newGeo() *fakeGeocoder {
	return &fakeGeocoder{points: map[string]maps.Point{"Loop": loop, "O'Hare": ohare, "Evanston": evanstn}}
}

func TestEstimate(t *testing.T) {
	geo := newGeo()
	svc := NewService(geo, fakeRamps{miles: 2.3}, 0)

	est, err := svc.Estimate(context.Background(), "Loop", "O'Hare")
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if geo.calls != 2 {
		t.Errorf("geocode calls = %d, want 2", geo.calls)
	}
	if est.Miles != maps.HaversineMiles(loop, ohare) || est.Miles < 14 || est.Miles > 16 {
		t.Errorf("Miles = %f, want ~15", est.Miles)
	}
	if est.ExitMiles == nil || *est.ExitMiles != 2.3 {
		t.Errorf("ExitMiles = %v, want 2.3", est.ExitMiles)
	}
	if est.LanePreview != offer.LaneRightEdge {
		t.Errorf("LanePreview = %s, want RIGHT_EDGE", est.LanePreview)
	}
}

func TestEstimate_RampFailureIgnored(t *testing.T) {
	svc := NewService(newGeo(), fakeRamps{err: maps.ErrNoRamp}, 0)
	est, err := svc.Estimate(context.Background(), "Loop", "Evanston")
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if est.ExitMiles != nil {
		t.Errorf("ExitMiles = %v, want nil", *est.ExitMiles)
	}
	if est.LanePreview != offer.LaneMiddle {
		t.Errorf("LanePreview = %s, want MIDDLE", est.LanePreview)
	}
}

func TestEstimate_GeocodeError(t *testing.T) {
	svc := NewService(newGeo(), nil, 0)
	_, err := svc.Estimate(context.Background(), "Loop", "Atlantis")
	if !errors.Is(err, maps.ErrNoGeocodeResult) {
		t.Fatalf("err = %v, want ErrNoGeocodeResult", err)
	}
}

func TestEnrich(t *testing.T) {
	svc := NewService(newGeo(), fakeRamps{miles: 6}, 0)

	req := offer.Request{Origin: "Loop", Destination: "O'Hare"}
	svc.Enrich(context.Background(), &req)
	if req.TripMiles != math.Round(maps.HaversineMiles(loop, ohare)) || req.ExitMiles == nil || *req.ExitMiles != 6 {
		t.Errorf("req = %+v", req)
	}

	same := offer.Request{Origin: "Loop", Destination: "Loop"}
	svc.Enrich(context.Background(), &same)
	if same.TripMiles != 0 || same.ExitMiles == nil {
		t.Errorf("zero-mile trip: %+v", same)
	}

	exit := 1.0
	kept := offer.Request{Origin: "Loop", Destination: "O'Hare", TripMiles: 40, ExitMiles: &exit}
	svc.Enrich(context.Background(), &kept)
	if kept.TripMiles != 40 || *kept.ExitMiles != 1 {
		t.Errorf("caller values overwritten: %+v", kept)
	}

	failed := offer.Request{Origin: "Nowhere", Destination: "O'Hare", TripMiles: 12}
	svc.Enrich(context.Background(), &failed)
	if failed.TripMiles != 12 || failed.ExitMiles != nil {
		t.Errorf("failed enrichment changed request: %+v", failed)
	}
}
