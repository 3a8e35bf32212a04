// README: Trip enrichment. Resolves endpoints and fills in miles and the distance to the nearest highway entrance.
package trip

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ease/internal/maps"
	"ease/internal/modules/offer"
)

// DefaultTimeout bounds one enrichment pass.
const DefaultTimeout = 5 * time.Second

type Geocoder interface {
	Geocode(ctx context.Context, address string) (maps.Point, error)
}

type RampLocator interface {
	NearestRampMiles(ctx context.Context, p maps.Point) (float64, error)
}

// Estimate is the straight-line view of a trip used to pre-fill the planner form.
type Estimate struct {
	Origin      maps.Point       `json:"origin"`
	Dest        maps.Point       `json:"dest"`
	Miles       float64          `json:"miles"`
	LanePreview offer.LaneFamily `json:"lanePreview"`
	// ExitMiles is nil when no highway entrance was found.
	ExitMiles *float64 `json:"exitMiles"`
}

// Service orchestrates geocoding and the entrance lookup. ramps may be nil.
type Service struct {
	geo     Geocoder
	ramps   RampLocator
	timeout time.Duration
}

func NewService(geo Geocoder, ramps RampLocator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{geo: geo, ramps: ramps, timeout: timeout}
}

// Estimate geocodes both endpoints concurrently. The entrance lookup is best effort.
func (s *Service) Estimate(ctx context.Context, origin, dest string) (*Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var from, to maps.Point
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.geo.Geocode(gctx, origin)
		if err != nil {
			return fmt.Errorf("geocode origin: %w", err)
		}
		from = p
		return nil
	})
	g.Go(func() error {
		p, err := s.geo.Geocode(gctx, dest)
		if err != nil {
			return fmt.Errorf("geocode dest: %w", err)
		}
		to = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	est := &Estimate{Origin: from, Dest: to, Miles: maps.HaversineMiles(from, to)}
	if s.ramps != nil {
		miles, err := s.ramps.NearestRampMiles(ctx, from)
		if err != nil {
			log.Debug().Err(err).Str("origin", origin).Msg("entrance lookup skipped")
		} else {
			est.ExitMiles = &miles
		}
	}

	exit := float64(offer.DefaultExitMiles)
	if est.ExitMiles != nil {
		exit = *est.ExitMiles
	}
	est.LanePreview = offer.LaneFor(est.Miles, exit)
	return est, nil
}

// Enrich fills TripMiles when the caller left it at zero and ExitMiles when unknown.
// Failures are logged and leave req unchanged.
func (s *Service) Enrich(ctx context.Context, req *offer.Request) {
	if req.TripMiles > 0 && req.ExitMiles != nil {
		return
	}
	est, err := s.Estimate(ctx, req.Origin, req.Destination)
	if err != nil {
		log.Warn().Err(err).Str("origin", req.Origin).Str("dest", req.Destination).Msg("trip enrichment failed")
		return
	}
	// whole miles; a trip that rounds to zero keeps the caller's value
	if m := math.Round(est.Miles); req.TripMiles == 0 && m > 0 {
		req.TripMiles = m
	}
	if req.ExitMiles == nil {
		req.ExitMiles = est.ExitMiles
	}
}
