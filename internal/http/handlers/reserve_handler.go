// README: Reservation acknowledgement; nothing is persisted.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type reserveReq struct {
	OfferID string `json:"offerId"`
}

type reserveResp struct {
	OK            bool   `json:"ok"`
	ReservationID string `json:"reservationId"`
	OfferID       string `json:"offerId"`
}

// Reserve handles POST /api/reserve.
func Reserve(c *gin.Context) {
	var req reserveReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.OfferID) == "" {
		writeError(c, http.StatusBadRequest, "MISSING_FIELDS", "offerId is required")
		return
	}
	if _, err := uuid.Parse(req.OfferID); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid offerId")
		return
	}
	resp := reserveResp{OK: true, ReservationID: uuid.NewString(), OfferID: req.OfferID}
	log.Info().Str("offer_id", resp.OfferID).Str("reservation_id", resp.ReservationID).Msg("reservation accepted")
	writeJSON(c, http.StatusOK, resp)
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
