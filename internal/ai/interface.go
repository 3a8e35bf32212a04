package ai

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when a provider is constructed without credentials.
var ErrMissingAPIKey = errors.New("ai: missing api key")

// OfferPlanner asks a language model for a structured traffic assessment and a set of
// earlier/later windows around a desired arrival.
// Implementations must honour ctx cancellation; callers apply their own deadline.
type OfferPlanner interface {
	PlanOffers(ctx context.Context, q OfferQuery) (*OfferPlan, error)
}
