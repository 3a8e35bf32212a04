package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements OfferPlanner using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a Gemini client constrained to the offer plan schema.
// An empty modelName selects gemini-2.0-flash.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(planInstructions)}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = offerPlanSchema()
	model.SetTemperature(0.2)

	return &GeminiProvider{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) PlanOffers(ctx context.Context, q OfferQuery) (*OfferPlan, error) {
	prompt, err := buildUserPrompt(q)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode query: %w", err)
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	plan, err := decodePlan(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, responseText.String())
	}
	return plan, nil
}

func offerPlanSchema() *genai.Schema {
	score := func(withMinutes bool) *genai.Schema {
		s := &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"reliability": {Type: genai.TypeNumber},
				"headroom":    {Type: genai.TypeNumber},
			},
			Required: []string{"reliability", "headroom"},
		}
		if withMinutes {
			s.Properties["minutes"] = &genai.Schema{Type: genai.TypeInteger}
			s.Required = append(s.Required, "minutes")
		}
		return s
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"traffic": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"level":     {Type: genai.TypeString, Enum: trafficLevels},
					"density":   {Type: genai.TypeNumber},
					"reasoning": {Type: genai.TypeString},
				},
				Required: []string{"level", "density", "reasoning"},
			},
			"laneFamily": {Type: genai.TypeString, Enum: laneFamilies},
			"parent":     score(false),
			"earlier":    {Type: genai.TypeArray, Items: score(true)},
			"later":      {Type: genai.TypeArray, Items: score(true)},
		},
		Required: []string{"traffic", "laneFamily", "parent", "earlier", "later"},
	}
}
