// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"

	"ease/internal/http/handlers"
	"ease/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(handlers.MethodNotAllowed)
	r.Use(middleware.Logging(), middleware.Recovery())

	offerHandler := handlers.NewOfferHandler(deps.Engine, deps.AI, deps.Enricher, deps.Now, deps.Location, deps.AITimeout)
	r.POST("/api/offers", offerHandler.Offers)
	r.POST("/api/offers-ai", offerHandler.OffersAI)

	mapsHandler := handlers.NewMapsHandler(deps.Directions, deps.Trips, deps.MapsTimeout)
	r.GET("/api/directions", mapsHandler.Directions)
	r.GET("/api/trip/estimate", mapsHandler.TripEstimate)

	trafficHandler := handlers.NewTrafficHandler(deps.Now, deps.Location)
	r.GET("/api/traffic", trafficHandler.Estimate)

	graceHandler := handlers.NewGraceHandler(deps.Grace, deps.Cookies, deps.Location)
	r.GET("/api/grace", graceHandler.Get)
	r.POST("/api/grace/check", graceHandler.Check)
	r.POST("/api/grace/consume", graceHandler.Consume)

	r.POST("/api/reserve", handlers.Reserve)
	r.GET("/health", handlers.Health)
	return r
}
