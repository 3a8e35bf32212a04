// README: Live directions proxy and trip estimate handlers.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ease/internal/maps"
	"ease/internal/modules/trip"
)

type DirectionsFetcher interface {
	GetDirections(ctx context.Context, origin, destination string) (*maps.Directions, error)
}

type TripEstimator interface {
	Estimate(ctx context.Context, origin, dest string) (*trip.Estimate, error)
}

type MapsHandler struct {
	directions DirectionsFetcher
	trips      TripEstimator
	timeout    time.Duration
}

// NewMapsHandler accepts nil collaborators; their endpoints then answer NO_API_KEY.
func NewMapsHandler(directions DirectionsFetcher, trips TripEstimator, timeout time.Duration) *MapsHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MapsHandler{directions: directions, trips: trips, timeout: timeout}
}

type directionsResp struct {
	*maps.Directions
	Gate any `json:"gate"`
}

// Directions handles GET /api/directions?origin=...&destination=...
func (h *MapsHandler) Directions(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))
	destination := strings.TrimSpace(c.Query("destination"))
	if origin == "" || destination == "" {
		writeError(c, http.StatusBadRequest, "MISSING_FIELDS", "missing origin or destination")
		return
	}
	if h.directions == nil {
		writeError(c, http.StatusInternalServerError, CodeNoAPIKey, "no maps key configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	d, err := h.directions.GetDirections(ctx, origin, destination)
	if err != nil {
		writeMapsError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, directionsResp{Directions: d})
}

// TripEstimate handles GET /api/trip/estimate?origin=...&dest=...
func (h *MapsHandler) TripEstimate(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))
	dest := strings.TrimSpace(c.Query("dest"))
	if origin == "" || dest == "" {
		writeError(c, http.StatusBadRequest, "MISSING_FIELDS", "missing origin or dest")
		return
	}
	if h.trips == nil {
		writeError(c, http.StatusInternalServerError, CodeNoAPIKey, "no maps key configured")
		return
	}

	est, err := h.trips.Estimate(c.Request.Context(), origin, dest)
	if err != nil {
		writeMapsError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, est)
}
