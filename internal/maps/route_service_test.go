package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"googlemaps.github.io/maps"
)

func step(instr string, meters int) *maps.Step {
	s := &maps.Step{HTMLInstructions: instr}
	s.Distance.Meters = meters
	return s
}

func TestSummarizeLeg(t *testing.T) {
	leg := &maps.Leg{
		Duration:          12 * time.Minute,
		DurationInTraffic: 15*time.Minute + 20*time.Second,
		Steps: []*maps.Step{
			step("Head <b>north</b> on Main St", 800),
			step("Turn right onto Oak Ave", 809),
			step("Take the <b>ramp</b> onto I-90 E", 400),
			step("Merge onto I-90 E", 5000),
		},
	}
	leg.Distance.HumanReadable = "4.2 mi"

	d := summarizeLeg(leg)
	if d.ETAMin != 15 {
		t.Errorf("ETAMin = %d, want 15 from traffic duration", d.ETAMin)
	}
	if d.DistanceText != "4.2 mi" {
		t.Errorf("DistanceText = %q", d.DistanceText)
	}
	if d.NextText != "Take the ramp onto I-90 E" {
		t.Errorf("NextText = %q", d.NextText)
	}
	// 2009 m including the ramp step
	if d.DistanceToMotorway == nil || *d.DistanceToMotorway != 1.2 {
		t.Errorf("DistanceToMotorway = %v, want 1.2", d.DistanceToMotorway)
	}
}

func TestSummarizeLeg_NoMotorway(t *testing.T) {
	leg := &maps.Leg{
		Duration: 90 * time.Second,
		Steps:    []*maps.Step{step("Head <b>east</b>", 100), step("Arrive", 50)},
	}
	d := summarizeLeg(leg)
	if d.ETAMin != 2 {
		t.Errorf("ETAMin = %d, want 2", d.ETAMin)
	}
	if d.NextText != "Head east" || d.DistanceToMotorway != nil {
		t.Errorf("got %+v", d)
	}
}

func TestClassify(t *testing.T) {
	err := classify(errors.New("maps: REQUEST_DENIED - The provided API key is invalid."))
	var se *StatusError
	if !errors.Is(err, ErrUpstreamStatus) || !errors.As(err, &se) {
		t.Fatalf("status error not classified: %v", err)
	}
	if se.Status != "REQUEST_DENIED" || se.Message != "The provided API key is invalid." {
		t.Errorf("got %+v", se)
	}
	if err := classify(errors.New("dial tcp: refused")); errors.Is(err, ErrUpstreamStatus) {
		t.Errorf("transport error classified as status: %v", err)
	}
}

const directionsOK = `{
  "status": "OK",
  "routes": [{
    "summary": "I-90",
    "legs": [{
      "distance": {"text": "5.2 mi", "value": 8369},
      "duration": {"text": "12 mins", "value": 720},
      "duration_in_traffic": {"text": "15 mins", "value": 900},
      "steps": [
        {"html_instructions": "Head <b>west</b>", "distance": {"text": "0.5 mi", "value": 805}, "duration": {"text": "1 min", "value": 60}},
        {"html_instructions": "Use the right lane to merge onto <b>I-90</b>", "distance": {"text": "0.5 mi", "value": 804}, "duration": {"text": "1 min", "value": 60}}
      ]
    }]
  }]
}`

func TestRouteService_GetDirections(t *testing.T) {
	body := directionsOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("departure_time") != "now" {
			t.Errorf("departure_time = %q", r.URL.Query().Get("departure_time"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	svc, err := NewRouteService("test-key", maps.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewRouteService() error = %v", err)
	}

	d, err := svc.GetDirections(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("GetDirections() error = %v", err)
	}
	if d.ETAMin != 15 || d.DistanceText != "5.2 mi" {
		t.Errorf("got %+v", d)
	}
	if d.DistanceToMotorway == nil || *d.DistanceToMotorway != 1.0 {
		t.Errorf("DistanceToMotorway = %v, want 1.0", d.DistanceToMotorway)
	}

	body = `{"status": "ZERO_RESULTS", "routes": []}`
	if _, err := svc.GetDirections(context.Background(), "A", "B"); !errors.Is(err, ErrUpstreamStatus) {
		t.Errorf("err = %v, want ErrUpstreamStatus", err)
	}
}

func TestHaversine(t *testing.T) {
	nyc := Point{Lat: 40.7128, Lng: -74.0060}
	la := Point{Lat: 34.0522, Lng: -118.2437}
	if km := HaversineKm(nyc, la); km < 3894 || km > 3994 {
		t.Errorf("HaversineKm() = %f, want ~3944", km)
	}
	if mi := HaversineMiles(nyc, nyc); mi != 0 {
		t.Errorf("HaversineMiles(same) = %f", mi)
	}
	if mi := HaversineMiles(nyc, la); mi < 2420 || mi > 2480 {
		t.Errorf("HaversineMiles() = %f, want ~2450", mi)
	}
}

func TestNearestMiles(t *testing.T) {
	from := Point{Lat: 41.88, Lng: -87.63}
	near := Point{Lat: 41.89, Lng: -87.63}
	far := Point{Lat: 42.0, Lng: -87.63}
	got, err := nearestMiles(from, []Point{far, near})
	if err != nil {
		t.Fatalf("nearestMiles() error = %v", err)
	}
	if got != HaversineMiles(from, near) {
		t.Errorf("nearestMiles() = %f", got)
	}
	if _, err := nearestMiles(from, nil); !errors.Is(err, ErrNoRamp) {
		t.Errorf("err = %v, want ErrNoRamp", err)
	}
}
