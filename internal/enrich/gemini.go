package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"google.golang.org/genai"

	"cryptobrief/internal/core"
)

const (
	// DefaultModel is the default Gemini model used for enrichment.
	DefaultModel = "gemini-flash-lite-latest"

	enrichmentPromptTemplate = `Analyze the following crypto news article and return a structured assessment.

Title: %s
Source: %s
Published: %s

Content:
%s

Score sentiment and urgency in [0,1] where 0.5 is neutral. Trust reflects the
reliability of the source and the specificity of the claims. Categories are
short topical labels (e.g. "Bitcoin", "Regulation", "DeFi"). Market impact is
one of low, medium, high. Time relevance is one of breaking, recent, historical.`
)

// GeminiEnricher implements Enricher using the Gemini API with a response
// schema so the model returns well-formed JSON.
type GeminiEnricher struct {
	client    *genai.Client
	modelName string
}

// NewGeminiEnricher creates an enricher backed by the Gemini API.
// The API key is read from GEMINI_API_KEY or the gemini.api_key config entry.
func NewGeminiEnricher(ctx context.Context, modelName string) (*GeminiEnricher, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = viper.GetString("gemini.api_key")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or gemini.api_key in the config file")
	}

	if modelName == "" {
		modelName = viper.GetString("gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEnricher{client: client, modelName: modelName}, nil
}

// Enrich calls the model and parses the structured JSON response. Malformed
// or empty responses are returned as errors so the caller can apply Fallback.
func (g *GeminiEnricher) Enrich(ctx context.Context, article core.RawArticle) (core.EnrichmentResult, error) {
	prompt := fmt.Sprintf(enrichmentPromptTemplate,
		article.Title, article.SourceName, article.PublishedAt, article.Content)

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   enrichmentSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return core.EnrichmentResult{}, fmt.Errorf("enrichment request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return core.EnrichmentResult{}, fmt.Errorf("empty response from model")
	}

	var result core.EnrichmentResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return core.EnrichmentResult{}, fmt.Errorf("failed to parse enrichment JSON: %w", err)
	}

	if err := validateResult(result); err != nil {
		return core.EnrichmentResult{}, err
	}

	return result, nil
}

// enrichmentSchema enforces the EnrichmentResult shape on the model output.
func enrichmentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sentiment": {
				Type:        genai.TypeNumber,
				Description: "Sentiment score from 0 (bearish) to 1 (bullish), 0.5 neutral",
			},
			"trust": {
				Type:        genai.TypeNumber,
				Description: "Source trust score from 0 to 1",
			},
			"categories": {
				Type:        genai.TypeArray,
				Description: "1-4 short topical category labels",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"macro_category": {
				Type:        genai.TypeString,
				Description: "Top-level category, usually Finance",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "2-3 sentence summary of the article",
			},
			"urgency_score": {
				Type:        genai.TypeNumber,
				Description: "Urgency from 0 to 1",
			},
			"market_impact": {
				Type: genai.TypeString,
				Enum: []string{"low", "medium", "high"},
			},
			"time_relevance": {
				Type: genai.TypeString,
				Enum: []string{"breaking", "recent", "historical"},
			},
		},
		Required: []string{"sentiment", "trust", "categories", "summary", "market_impact"},
	}
}

func validateResult(result core.EnrichmentResult) error {
	if result.Sentiment < 0 || result.Sentiment > 1 {
		return fmt.Errorf("sentiment %f out of range", result.Sentiment)
	}
	if result.Trust < 0 || result.Trust > 1 {
		return fmt.Errorf("trust %f out of range", result.Trust)
	}
	if len(result.Categories) == 0 {
		return fmt.Errorf("enrichment returned no categories")
	}
	switch result.MarketImpact {
	case core.ImpactLow, core.ImpactMedium, core.ImpactHigh:
	default:
		return fmt.Errorf("unknown market impact %q", result.MarketImpact)
	}
	return nil
}
