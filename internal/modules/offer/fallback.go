package offer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAITimeout bounds a primary source call before falling back.
const DefaultAITimeout = 8 * time.Second

// Fallback runs Primary under Timeout and answers from Secondary when it fails.
// Validation errors are returned as-is.
type Fallback struct {
	Primary   Source
	Secondary Source
	Timeout   time.Duration
}

func NewFallback(primary, secondary Source, timeout time.Duration) *Fallback {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	return &Fallback{Primary: primary, Secondary: secondary, Timeout: timeout}
}

func (f *Fallback) Generate(ctx context.Context, req Request) (*OfferSet, error) {
	pctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	set, err := f.Primary.Generate(pctx, req)
	if err == nil {
		return set, nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return nil, err
	}
	log.Warn().Err(err).Str("origin", req.Origin).Str("dest", req.Destination).Msg("primary offer source failed, using fallback")
	return f.Secondary.Generate(ctx, req)
}
