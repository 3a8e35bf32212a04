// README: Offer sources. Engine is pure and deterministic; AISource and Fallback live beside it.
package offer

import (
	"context"
	"time"

	"ease/internal/modules/demand"
	"ease/internal/modules/horizon"
	"ease/internal/modules/traffic"
)

// Source produces an offer set for a validated trip request.
type Source interface {
	Generate(ctx context.Context, req Request) (*OfferSet, error)
}

// Engine is the deterministic offer source backed by the demand model.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// NewEngine returns an engine reading wall-clock time from now and calendar fields in loc.
// nil arguments select time.Now and time.Local.
func NewEngine(now func() time.Time, loc *time.Location) *Engine {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{now: now, loc: loc}
}

func (e *Engine) Generate(_ context.Context, req Request) (*OfferSet, error) {
	now := e.now().In(e.loc)
	if err := Validate(req, now); err != nil {
		return nil, err
	}

	in := BuildInput{
		Origin:         req.Origin,
		Destination:    req.Destination,
		DesiredArrival: req.DesiredArrival.In(e.loc),
		TripMiles:      req.TripMiles,
		ExitMiles:      DefaultExitMiles,
		Flex:           req.Flex,
	}
	if req.ExitMiles != nil {
		in.ExitMiles = *req.ExitMiles
	}

	var (
		set OfferSet
		rec *horizon.Recommendation
	)
	if req.Horizon != horizon.ModeNone {
		rec = horizon.Search(req.Horizon, now, in.DesiredArrival, req.TripMiles)
	}
	if rec != nil {
		in.DesiredArrival = alignUp5(rec.BestAt)
		set = BuildAround(in, horizon.Offsets(req.Horizon, req.Flex.MinShift, req.Flex.MaxShift))
	} else {
		set = Build(in)
	}

	set.Traffic = summarize(set.Parent.WindowStart, req.TripMiles)
	set.Recommendation = rec
	set.Source = SourceEngine
	return &set, nil
}

func summarize(at time.Time, tripMiles float64) Traffic {
	est := traffic.Estimate(traffic.Input{At: at, TripMiles: tripMiles})
	return Traffic{Level: est.Level, Density: est.Density, Reasoning: est.Reasoning()}
}

// alignUp5 rounds t up to a 5-minute boundary.
func alignUp5(t time.Time) time.Time {
	a := demand.Align5(t)
	if a.Before(t) {
		a = a.Add(5 * time.Minute)
	}
	return a
}
