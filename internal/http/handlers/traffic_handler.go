// README: Traffic estimate handler.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ease/internal/modules/horizon"
	"ease/internal/modules/offer"
	"ease/internal/modules/traffic"
)

type TrafficHandler struct {
	now func() time.Time
	loc *time.Location
}

func NewTrafficHandler(now func() time.Time, loc *time.Location) *TrafficHandler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &TrafficHandler{now: now, loc: loc}
}

type trafficResp struct {
	At             time.Time               `json:"at"`
	Density        float64                 `json:"density"`
	Level          traffic.Level           `json:"level"`
	Factors        []traffic.Factor        `json:"factors"`
	Reasoning      string                  `json:"reasoning"`
	Recommendation *horizon.Recommendation `json:"recommendation,omitempty"`
}

// Estimate handles GET /api/traffic?at=...&miles=...&horizon=...
// at defaults to now; horizon adds the best start time found by that scan.
func (h *TrafficHandler) Estimate(c *gin.Context) {
	now := h.now().In(h.loc)
	at := now
	if v := c.Query("at"); v != "" {
		t, err := offer.ParseArrival(v, h.loc)
		if err != nil {
			writeOfferError(c, err)
			return
		}
		at = t.In(h.loc)
	}

	var miles float64
	if v := c.Query("miles"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m < 0 {
			writeOfferError(c, &offer.ValidationError{Code: offer.CodeInvalidMiles, Fields: []string{"miles"}, Msg: "miles must be a non-negative number"})
			return
		}
		miles = m
	}

	mode, err := horizon.ParseMode(c.Query("horizon"))
	if err != nil {
		writeOfferError(c, &offer.ValidationError{Code: offer.CodeInvalidHorizon, Fields: []string{"horizon"}, Msg: err.Error()})
		return
	}

	est := traffic.Estimate(traffic.Input{At: at, TripMiles: miles})
	factors := est.Factors
	if factors == nil {
		factors = []traffic.Factor{}
	}
	writeJSON(c, http.StatusOK, trafficResp{
		At:             at,
		Density:        est.Density,
		Level:          est.Level,
		Factors:        factors,
		Reasoning:      est.Reasoning(),
		Recommendation: horizon.Search(mode, now, at, miles),
	})
}
