// README: Monthly grace tokens that let a rider change a reservation close to its window start.
package grace

import (
	"errors"
	"time"
)

// ErrNoTokens is returned when the current month's allowance is used up.
var ErrNoTokens = errors.New("no grace tokens remaining")

const (
	// MonthlyTokens is the allowance granted at the start of each calendar month.
	MonthlyTokens = 3
	// LateThreshold marks a change as late when the window starts within it.
	LateThreshold = 15 * time.Minute
)

// State is the persisted counter for one holder.
type State struct {
	Month  string `json:"month"` // YYYY-MM, UTC
	Tokens int    `json:"tokens"`
}

// Decision is the outcome of a late-change check.
type Decision struct {
	Allowed         bool `json:"allowed"`
	IsLate          bool `json:"isLate"`
	RemainingTokens int  `json:"remainingTokens"`
}

// MonthKey names the UTC calendar month of now.
func MonthKey(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// Fresh is a full allowance for the month of now.
func Fresh(now time.Time) State {
	return State{Month: MonthKey(now), Tokens: MonthlyTokens}
}

// Normalize resets s when it belongs to an earlier month. The zero State is reset too.
func Normalize(s State, now time.Time) State {
	if s.Month != MonthKey(now) {
		return Fresh(now)
	}
	return s
}

// Check reports whether a change to a window starting at windowStart is late and, if so,
// whether a token is available. It does not consume anything.
func Check(s State, windowStart, now time.Time) Decision {
	s = Normalize(s, now)
	late := windowStart.Sub(now) <= LateThreshold
	return Decision{Allowed: !late || s.Tokens > 0, IsLate: late, RemainingTokens: s.Tokens}
}

// Consume takes one token from the normalized state. The count never drops below zero.
func Consume(s State, now time.Time) (State, error) {
	s = Normalize(s, now)
	if s.Tokens <= 0 {
		s.Tokens = 0
		return s, ErrNoTokens
	}
	s.Tokens--
	return s, nil
}

// monthEnd returns the first instant after the state's month, or zero for a malformed key.
func monthEnd(month string) time.Time {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}
	}
	return t.AddDate(0, 1, 0)
}
