package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("EASE_TZ", "UTC")
	t.Setenv("EASE_LOG_LEVEL", "error")
	t.Setenv("EASE_LOG_CONSOLE", "false")
	t.Setenv("EASE_AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestOffersCmd(t *testing.T) {
	arrival := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute).Format("2006-01-02T15:04")
	out, err := run(t, "offers", "--origin", "A", "--dest", "B", "--arrival", arrival, "--miles", "30", "--ai")
	if err != nil {
		t.Fatalf("offers: %v\n%s", err, out)
	}

	var got offersOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Offers == nil || got.Offers.Parent.ID == "" {
		t.Fatalf("missing parent offer: %s", out)
	}
	// no key configured, so the engine answers
	if got.Offers.Source != "engine" {
		t.Errorf("source = %q", got.Offers.Source)
	}
	if got.Ranking.BestID == "" || got.Ranking.WorstID == "" {
		t.Errorf("ranking = %+v", got.Ranking)
	}
}

func TestOffersCmd_NoFlex(t *testing.T) {
	arrival := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	out, err := run(t, "offers", "--origin", "A", "--dest", "B", "--arrival", arrival, "--no-flex")
	if err != nil {
		t.Fatalf("offers: %v", err)
	}
	var got offersOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Offers.Earlier) != 0 || len(got.Offers.Later) != 0 {
		t.Errorf("flex off returned shifted offers: %s", out)
	}
}

func TestOffersCmd_Errors(t *testing.T) {
	future := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02T15:04")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing flags", []string{"offers", "--origin", "A"}, "required flag"},
		{"bad arrival", []string{"offers", "--origin", "A", "--dest", "B", "--arrival", "tomorrow"}, "valid date/time"},
		{"past arrival", []string{"offers", "--origin", "A", "--dest", "B", "--arrival", "2001-01-01T08:00"}, "future"},
		{"bad horizon", []string{"offers", "--origin", "A", "--dest", "B", "--arrival", future, "--horizon", "YEAR"}, "YEAR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestTrafficCmd(t *testing.T) {
	// a Saturday
	out, err := run(t, "traffic", "--at", "2030-07-06T14:00", "--miles", "12")
	if err != nil {
		t.Fatalf("traffic: %v", err)
	}
	var got trafficOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Level != "MEDIUM" || !strings.Contains(got.Reasoning, "weekend midday") {
		t.Errorf("got %+v", got)
	}
	if got.Recommendation != nil {
		t.Errorf("unexpected recommendation without horizon: %+v", got.Recommendation)
	}

	out, err = run(t, "traffic", "--horizon", "hours")
	if err != nil {
		t.Fatalf("traffic --horizon: %v", err)
	}
	got = trafficOutput{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Recommendation == nil || got.Recommendation.BestAt.IsZero() {
		t.Errorf("missing recommendation: %s", out)
	}
}
