// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ease/internal/maps"
	"ease/internal/modules/grace"
	"ease/internal/modules/offer"
)

// Error codes that are not validation codes.
const (
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNoAPIKey         = "NO_API_KEY"
	CodeAIFailed         = "AI_FAILED"
	CodeFetchFailed      = "FETCH_FAILED"
	CodeNoTokens         = "NO_GRACE_TOKENS"
	CodeInternal         = "INTERNAL"
	CodeBadRequest       = "BAD_REQUEST"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, code, details string) {
	writeJSON(c, status, errorResponse{Error: code, Details: details})
}

// MethodNotAllowed is installed as the engine's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	writeError(c, http.StatusMethodNotAllowed, CodeMethodNotAllowed, c.Request.Method+" not allowed")
}

func writeOfferError(c *gin.Context, err error) {
	var ve *offer.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: ve.Code, Details: ve.Msg, Fields: ve.Fields})
	case errors.Is(err, offer.ErrNoAPIKey):
		writeError(c, http.StatusInternalServerError, CodeNoAPIKey, "no AI provider key configured")
	case errors.Is(err, offer.ErrAIUnavailable):
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, CodeAIFailed, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

func writeMapsError(c *gin.Context, err error) {
	_ = c.Error(err)
	var se *maps.StatusError
	switch {
	case errors.As(err, &se):
		writeError(c, http.StatusBadRequest, se.Status, se.Message)
	case errors.Is(err, maps.ErrNoGeocodeResult):
		writeError(c, http.StatusBadRequest, "ZERO_RESULTS", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, CodeFetchFailed, err.Error())
	}
}

func writeGraceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, grace.ErrNoTokens):
		writeError(c, http.StatusConflict, CodeNoTokens, err.Error())
	case errors.Is(err, grace.ErrMissingHolder):
		writeError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
