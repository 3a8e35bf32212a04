package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"googlemaps.github.io/maps"
)

var ErrNoGeocodeResult = errors.New("no geocode result")

const (
	defaultGeocodeCacheSize = 512
	defaultGeocodeTTL       = 24 * time.Hour
)

// GeocodeService resolves free-form addresses through the Geocoding API, caching hits.
type GeocodeService struct {
	client *maps.Client
	cache  gcache.Cache
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
func NewGeocodeService(apiKey string, opts ...maps.ClientOption) (*GeocodeService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{
		client: client,
		cache:  gcache.New(defaultGeocodeCacheSize).LRU().Expiration(defaultGeocodeTTL).Build(),
	}, nil
}

// Geocode returns the first match for address. Addresses are cached case-insensitively.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (Point, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if v, err := s.cache.Get(key); err == nil {
		return v.(Point), nil
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return Point{}, classify(err)
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("%w: %q", ErrNoGeocodeResult, address)
	}

	loc := results[0].Geometry.Location
	p := Point{Lat: loc.Lat, Lng: loc.Lng}
	_ = s.cache.Set(key, p)
	return p, nil
}
