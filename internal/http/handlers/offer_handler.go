// README: Offer handlers (deterministic engine with optional AI, and the AI-only endpoint).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ease/internal/modules/horizon"
	"ease/internal/modules/offer"
)

// Enricher fills in trip miles and entrance distance when the caller did not send them.
type Enricher interface {
	Enrich(ctx context.Context, req *offer.Request)
}

type OfferHandler struct {
	engine    offer.Source
	ai        offer.Source
	enricher  Enricher
	now       func() time.Time
	loc       *time.Location
	aiTimeout time.Duration
}

// NewOfferHandler wires the offer sources. ai and enricher may be nil.
func NewOfferHandler(engine, ai offer.Source, enricher Enricher, now func() time.Time, loc *time.Location, aiTimeout time.Duration) *OfferHandler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	if aiTimeout <= 0 {
		aiTimeout = offer.DefaultAITimeout
	}
	return &OfferHandler{engine: engine, ai: ai, enricher: enricher, now: now, loc: loc, aiTimeout: aiTimeout}
}

type offerReq struct {
	Origin         string      `json:"origin"`
	Dest           string      `json:"dest"`
	DesiredArrival string      `json:"desiredArrival"`
	TripMiles      float64     `json:"tripMiles"`
	ExitMiles      *float64    `json:"exitMiles"`
	Flex           *offer.Flex `json:"flex"`
	Horizon        string      `json:"horizon"`
	UseAI          bool        `json:"useAI"`
}

type offersResp struct {
	Offers  *offer.OfferSet `json:"offers"`
	Ranking offer.Ranking   `json:"ranking"`
}

type aiOffersResp struct {
	Traffic    offer.Traffic    `json:"traffic"`
	Parent     offer.Offer      `json:"parent"`
	Earlier    []offer.Offer    `json:"earlier"`
	Later      []offer.Offer    `json:"later"`
	LaneAdvice offer.LaneFamily `json:"laneAdvice"`
}

func (h *OfferHandler) decode(c *gin.Context) (offer.Request, offerReq, error) {
	var body offerReq
	if err := c.ShouldBindJSON(&body); err != nil {
		return offer.Request{}, body, &offer.ValidationError{Code: offer.CodeMissingFields, Msg: "invalid json"}
	}

	var missing []string
	if strings.TrimSpace(body.Origin) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(body.Dest) == "" {
		missing = append(missing, "dest")
	}
	if strings.TrimSpace(body.DesiredArrival) == "" {
		missing = append(missing, "desiredArrival")
	}
	if len(missing) > 0 {
		return offer.Request{}, body, &offer.ValidationError{Code: offer.CodeMissingFields, Fields: missing, Msg: "required fields missing"}
	}

	arrival, err := offer.ParseArrival(body.DesiredArrival, h.loc)
	if err != nil {
		return offer.Request{}, body, err
	}
	mode, err := horizon.ParseMode(body.Horizon)
	if err != nil {
		return offer.Request{}, body, &offer.ValidationError{Code: offer.CodeInvalidHorizon, Fields: []string{"horizon"}, Msg: err.Error()}
	}

	flex := offer.DefaultFlex
	if body.Flex != nil {
		flex = *body.Flex
	}
	req := offer.Request{
		Origin:         strings.TrimSpace(body.Origin),
		Destination:    strings.TrimSpace(body.Dest),
		DesiredArrival: arrival,
		TripMiles:      body.TripMiles,
		ExitMiles:      body.ExitMiles,
		Flex:           flex,
		Horizon:        mode,
	}
	// reject before any enrichment or model call goes out
	if err := offer.Validate(req, h.now().In(h.loc)); err != nil {
		return offer.Request{}, body, err
	}
	return req, body, nil
}

// Offers handles POST /api/offers.
func (h *OfferHandler) Offers(c *gin.Context) {
	req, body, err := h.decode(c)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	if h.enricher != nil {
		h.enricher.Enrich(c.Request.Context(), &req)
	}

	var src offer.Source = h.engine
	if body.UseAI && h.ai != nil {
		src = offer.NewFallback(h.ai, h.engine, h.aiTimeout)
	}

	set, err := src.Generate(c.Request.Context(), req)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, offersResp{Offers: set, Ranking: offer.RankSet(set)})
}

// OffersAI handles POST /api/offers-ai. Failures are reported, not masked by the engine.
func (h *OfferHandler) OffersAI(c *gin.Context) {
	req, _, err := h.decode(c)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	if h.ai == nil {
		writeOfferError(c, offer.ErrNoAPIKey)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.aiTimeout)
	defer cancel()

	set, err := h.ai.Generate(ctx, req)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, aiOffersResp{
		Traffic:    set.Traffic,
		Parent:     set.Parent,
		Earlier:    set.Earlier,
		Later:      set.Later,
		LaneAdvice: set.LaneAdvice,
	})
}
