package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ease/internal/ai"
	"ease/internal/config"
	httptransport "ease/internal/http"
	"ease/internal/http/handlers"
	"ease/internal/infra"
	"ease/internal/maps"
	"ease/internal/modules/grace"
	"ease/internal/modules/offer"
	"ease/internal/modules/trip"
)

// newAISource builds the AI offer source. A missing key is not an error: the
// source then answers ErrNoAPIKey and /api/offers falls back to the engine.
func newAISource(ctx context.Context, cfg config.Config) (*offer.AISource, func(), error) {
	planner, closeFn, err := ai.NewPlanner(ctx, cfg.AI.Provider, cfg.AI.APIKey(), cfg.AI.Model)
	switch {
	case errors.Is(err, ai.ErrMissingAPIKey):
		log.Warn().Str("provider", cfg.AI.Provider).Msg("no AI key configured; AI offers disabled")
	case err != nil:
		return nil, closeFn, fmt.Errorf("ai provider: %w", err)
	}
	return offer.NewAISource(planner, time.Now, cfg.Location), closeFn, nil
}

func newGraceStore(ctx context.Context, cfg config.Config) (grace.Store, func(), error) {
	switch cfg.Grace.Backend {
	case config.GraceRedis:
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return grace.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	case config.GracePostgres:
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		store := grace.NewPGStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate grace tokens: %w", err)
		}
		return store, pool.Close, nil
	default:
		return grace.NewMemoryStore(), func() {}, nil
	}
}

// buildDeps wires every collaborator of the HTTP server. The returned cleanup releases
// connections and clients in reverse order.
func buildDeps(ctx context.Context, cfg config.Config) (httptransport.ServerDeps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := httptransport.ServerDeps{
		Engine:      offer.NewEngine(time.Now, cfg.Location),
		Location:    cfg.Location,
		Now:         time.Now,
		AITimeout:   cfg.AI.Timeout,
		MapsTimeout: cfg.Maps.Timeout,
		Cookies:     handlers.NewHolderCookie(cfg.Grace.HashKey, cfg.Grace.BlockKey),
	}
	if len(cfg.Grace.HashKey) == 0 {
		log.Warn().Msg("EASE_COOKIE_HASH_KEY not set; grace cookies reset on restart")
	}

	store, closeStore, err := newGraceStore(ctx, cfg)
	if err != nil {
		return deps, cleanup, err
	}
	closers = append(closers, closeStore)
	deps.Grace = grace.NewService(store, time.Now)
	log.Info().Str("backend", cfg.Grace.Backend).Msg("grace store ready")

	aiSrc, closeAI, err := newAISource(ctx, cfg)
	closers = append(closers, closeAI)
	if err != nil {
		return deps, cleanup, err
	}
	deps.AI = aiSrc

	if cfg.Maps.Key == "" {
		log.Warn().Msg("GOOGLE_MAPS_KEY not set; directions and trip estimates disabled")
		return deps, cleanup, nil
	}
	route, err := maps.NewRouteService(cfg.Maps.Key)
	if err != nil {
		return deps, cleanup, fmt.Errorf("maps directions: %w", err)
	}
	geo, err := maps.NewGeocodeService(cfg.Maps.Key)
	if err != nil {
		return deps, cleanup, fmt.Errorf("maps geocoding: %w", err)
	}
	trips := trip.NewService(geo, maps.NewRampService(cfg.Overpass.Endpoint, cfg.Overpass.Timeout), cfg.Maps.Timeout)
	deps.Directions = route
	deps.Trips = trips
	deps.Enricher = trips
	return deps, cleanup, nil
}
