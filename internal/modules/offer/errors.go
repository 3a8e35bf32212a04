package offer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrAIUnavailable = errors.New("ai unavailable")
	ErrNoAPIKey      = errors.New("no api key configured")
)

// Validation codes surfaced to API callers.
const (
	CodeMissingFields  = "MISSING_FIELDS"
	CodeInvalidArrival = "INVALID_ARRIVAL"
	CodeArrivalPast    = "ARRIVAL_IN_PAST"
	CodeInvalidFlex    = "INVALID_FLEX"
	CodeInvalidMiles   = "INVALID_TRIP_MILES"
	CodeInvalidHorizon = "INVALID_HORIZON"
)

// ValidationError describes a rejected request. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Code   string
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", strings.ToLower(e.Code), e.Msg)
	}
	return fmt.Sprintf("%s: %s (%s)", strings.ToLower(e.Code), e.Msg, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(code, msg string, fields ...string) error {
	return &ValidationError{Code: code, Fields: fields, Msg: msg}
}

// Validate checks a request before any offers are computed. Arrival must be after now.
func Validate(req Request, now time.Time) error {
	var missing []string
	if strings.TrimSpace(req.Origin) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(req.Destination) == "" {
		missing = append(missing, "dest")
	}
	if req.DesiredArrival.IsZero() {
		missing = append(missing, "desiredArrival")
	}
	if len(missing) > 0 {
		return invalid(CodeMissingFields, "required fields missing", missing...)
	}
	if !req.DesiredArrival.After(now) {
		return invalid(CodeArrivalPast, "arrival must be in the future", "desiredArrival")
	}
	if req.TripMiles < 0 {
		return invalid(CodeInvalidMiles, "trip miles must not be negative", "tripMiles")
	}
	f := req.Flex
	if f.On && (f.MinShift < 0 || f.MaxShift < f.MinShift || f.MinShift%5 != 0 || f.MaxShift%5 != 0) {
		return invalid(CodeInvalidFlex, "shift bounds must be multiples of 5 with 0 <= minShift <= maxShift", "flex")
	}
	return nil
}

var localLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04"}

// ParseArrival accepts RFC 3339 timestamps and offset-less local date-times, the latter
// read in loc.
func ParseArrival(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(CodeInvalidArrival, "please enter a valid date/time", "desiredArrival")
}
