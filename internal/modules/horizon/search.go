// README: Planning-horizon scans that pick the least congested start time ahead of now.
package horizon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ease/internal/modules/traffic"
)

type Mode string

const (
	ModeNone  Mode = ""
	ModeHours Mode = "HOURS"
	ModeDay   Mode = "DAY"
	ModeWeek  Mode = "WEEK"
	ModeMonth Mode = "MONTH"
)

var ErrUnknownMode = errors.New("unknown horizon mode")

// ParseMode accepts the mode names case-insensitively; "" and "NONE" select no scan.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case "", "NONE":
		return ModeNone, nil
	case ModeHours, ModeDay, ModeWeek, ModeMonth:
		return m, nil
	default:
		return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

const (
	hoursSpan     = 5 * time.Hour
	hoursStep     = 15 * time.Minute
	dayStep       = 30 * time.Minute
	dayCutoffHour = 23
	weekDays      = 7
	monthDays     = 30
	day           = 24 * time.Hour
)

type clock struct{ h, m int }

// sampled times of day for the week scan
var weekSlots = []clock{{7, 30}, {11, 30}, {15, 30}, {19, 0}}

// Recommendation is the least congested candidate found by a scan.
type Recommendation struct {
	Mode    Mode      `json:"mode"`
	BestAt  time.Time `json:"bestAt"`
	Density float64   `json:"density"`
}

// Candidates lists the times a mode scans, in scan order. now and desired should share
// the location whose calendar the scan follows.
func Candidates(mode Mode, now, desired time.Time) []time.Time {
	loc := now.Location()
	var out []time.Time

	switch mode {
	case ModeHours:
		end := now.Add(hoursSpan)
		for t := now; !t.After(end); t = t.Add(hoursStep) {
			out = append(out, t)
		}
	case ModeDay:
		end := time.Date(now.Year(), now.Month(), now.Day(), dayCutoffHour, 0, 0, 0, loc)
		if !end.After(now) {
			return nil
		}
		for t := now; !t.After(end); t = t.Add(dayStep) {
			out = append(out, t)
		}
	case ModeWeek:
		for offset := 0; offset <= weekDays; offset++ {
			d := now.Add(time.Duration(offset) * day)
			for _, c := range weekSlots {
				t := time.Date(d.Year(), d.Month(), d.Day(), c.h, c.m, 0, 0, loc)
				if t.Before(now) {
					continue
				}
				out = append(out, t)
			}
		}
	case ModeMonth:
		desired = desired.In(loc)
		for offset := 0; offset < monthDays; offset++ {
			d := now.Add(time.Duration(offset) * day)
			t := time.Date(d.Year(), d.Month(), d.Day(), desired.Hour(), desired.Minute(), 0, 0, loc)
			if t.Before(now) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// Search scans the mode's candidates and returns the first one with the lowest density,
// or nil when the mode is ModeNone or the scan range is empty.
func Search(mode Mode, now, desired time.Time, tripMiles float64) *Recommendation {
	var best *Recommendation
	for _, t := range Candidates(mode, now, desired) {
		est := traffic.Estimate(traffic.Input{At: t, TripMiles: tripMiles})
		if best == nil || est.Density < best.Density {
			best = &Recommendation{Mode: mode, BestAt: t, Density: est.Density}
		}
	}
	return best
}

var modeOffsets = map[Mode][]int{
	ModeNone:  {15, 30},
	ModeHours: {15, 30},
	ModeDay:   {30, 60},
	ModeWeek:  {45, 90},
	ModeMonth: {60, 120},
}

// Offsets returns the minute offsets tried on each side of a horizon-selected base,
// clamped into [minShift, maxShift] with consecutive duplicates removed.
func Offsets(mode Mode, minShift, maxShift int) []int {
	var out []int
	for _, o := range modeOffsets[mode] {
		v := min(max(o, minShift), maxShift)
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		out = []int{minShift}
	}
	return out
}
