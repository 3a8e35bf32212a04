// README: Grace-token handlers; the holder is identified by a signed cookie.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"ease/internal/modules/grace"
	"ease/internal/modules/offer"
)

const holderCookieName = "ease_grace"

// HolderCookie issues and reads the signed grace-holder id, one per browser.
type HolderCookie struct{ sc *securecookie.SecureCookie }

// NewHolderCookie signs with hashKey and encrypts with blockKey. A nil hashKey is
// replaced by a random one, which invalidates cookies on restart.
func NewHolderCookie(hashKey, blockKey []byte) *HolderCookie {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	return &HolderCookie{sc: securecookie.New(hashKey, blockKey)}
}

// Holder returns the caller's id, issuing a new cookie when none is valid.
func (h *HolderCookie) Holder(c *gin.Context) (string, error) {
	if raw, err := c.Cookie(holderCookieName); err == nil {
		var id string
		if err := h.sc.Decode(holderCookieName, raw, &id); err == nil && id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	encoded, err := h.sc.Encode(holderCookieName, id)
	if err != nil {
		return "", err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name: holderCookieName, Value: encoded, Path: "/",
		MaxAge: 400 * 24 * 3600, HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

type GraceService interface {
	Tokens(ctx context.Context, holder string) (grace.State, error)
	CheckLateChange(ctx context.Context, holder string, windowStart time.Time) (grace.Decision, error)
	ConsumeToken(ctx context.Context, holder string) (grace.State, error)
}

type GraceHandler struct {
	svc     GraceService
	cookies *HolderCookie
	loc     *time.Location
}

func NewGraceHandler(svc GraceService, cookies *HolderCookie, loc *time.Location) *GraceHandler {
	if loc == nil {
		loc = time.Local
	}
	return &GraceHandler{svc: svc, cookies: cookies, loc: loc}
}

type graceResp struct {
	Month           string `json:"month"`
	RemainingTokens int    `json:"remainingTokens"`
}

type graceCheckReq struct {
	WindowStart string `json:"windowStart"`
}

func (h *GraceHandler) holder(c *gin.Context) (string, bool) {
	id, err := h.cookies.Holder(c)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, CodeInternal, "cannot issue grace cookie")
		return "", false
	}
	return id, true
}

// Get handles GET /api/grace.
func (h *GraceHandler) Get(c *gin.Context) {
	id, ok := h.holder(c)
	if !ok {
		return
	}
	st, err := h.svc.Tokens(c.Request.Context(), id)
	if err != nil {
		writeGraceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, graceResp{Month: st.Month, RemainingTokens: st.Tokens})
}

// Check handles POST /api/grace/check.
func (h *GraceHandler) Check(c *gin.Context) {
	var req graceCheckReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.WindowStart) == "" {
		writeError(c, http.StatusBadRequest, offer.CodeMissingFields, "windowStart is required")
		return
	}
	start, err := offer.ParseArrival(req.WindowStart, h.loc)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	id, ok := h.holder(c)
	if !ok {
		return
	}
	d, err := h.svc.CheckLateChange(c.Request.Context(), id, start)
	if err != nil {
		writeGraceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

// Consume handles POST /api/grace/consume.
func (h *GraceHandler) Consume(c *gin.Context) {
	id, ok := h.holder(c)
	if !ok {
		return
	}
	st, err := h.svc.ConsumeToken(c.Request.Context(), id)
	if err != nil {
		writeGraceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, graceResp{Month: st.Month, RemainingTokens: st.Tokens})
}
