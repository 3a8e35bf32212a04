// README: API gateway; holds the collaborators the routes delegate to.
package http

import (
	"net/http"
	"time"

	"ease/internal/http/handlers"
	"ease/internal/modules/offer"
)

// ServerDeps lists the collaborators. AI, Enricher, Directions and Trips may be nil
// when their credentials are not configured.
type ServerDeps struct {
	Engine     offer.Source
	AI         offer.Source
	Enricher   handlers.Enricher
	Directions handlers.DirectionsFetcher
	Trips      handlers.TripEstimator
	Grace      handlers.GraceService
	Cookies    *handlers.HolderCookie

	Location    *time.Location
	Now         func() time.Time
	AITimeout   time.Duration
	MapsTimeout time.Duration
}

func NewServer(addr string, deps ServerDeps) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
