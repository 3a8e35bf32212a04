package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// NewPlanner builds the planner for provider. The returned close func is never nil.
// An empty apiKey yields ErrMissingAPIKey so callers can run without AI.
func NewPlanner(ctx context.Context, provider, apiKey, model string) (OfferPlanner, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderGemini:
		p, err := NewGeminiProvider(ctx, apiKey, model)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case ProviderOpenAI, "":
		p, err := NewOpenAIProvider(apiKey, model, "")
		if err != nil {
			return nil, noop, err
		}
		return p, noop, nil
	default:
		return nil, noop, fmt.Errorf("ai: unknown provider %q", provider)
	}
}
