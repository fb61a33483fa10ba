package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"google.golang.org/genai"

	"cryptobrief/internal/core"
	"cryptobrief/internal/search"
)

// DefaultJudgeModel is the default Gemini model for fact-check judgments.
const DefaultJudgeModel = "gemini-flash-lite-latest"

const judgeRubric = `You are a conservative fact checker for crypto market news.
Compare the article's claims against the evidence below. Only mark the article
verified when at least one independent reputable source corroborates its core
claim. When evidence is absent or contradictory, be conservative: mark it
unverified, lower the confidence, and raise the risk level. List the URLs of
sources that support or conflict with the claims. Always explain your
reasoning in the fact_check_notes field.`

// GeminiJudge implements Judge using the Gemini API with a response schema.
type GeminiJudge struct {
	client    *genai.Client
	modelName string
}

// NewGeminiJudge creates a judge backed by the Gemini API. The API key is
// read from GEMINI_API_KEY or the gemini.api_key config entry.
func NewGeminiJudge(ctx context.Context, modelName string) (*GeminiJudge, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = viper.GetString("gemini.api_key")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or gemini.api_key in the config file")
	}

	if modelName == "" {
		modelName = viper.GetString("gemini.judge_model")
		if modelName == "" {
			modelName = DefaultJudgeModel
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiJudge{client: client, modelName: modelName}, nil
}

// Judge scores the article against the evidence using the fixed rubric.
func (g *GeminiJudge) Judge(ctx context.Context, article core.RawArticle, evidence []search.Result) (core.ValidationResult, error) {
	prompt := buildJudgePrompt(article, evidence)

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   verdictSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return core.ValidationResult{}, fmt.Errorf("judgment request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return core.ValidationResult{}, fmt.Errorf("empty response from model")
	}

	var result core.ValidationResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return core.ValidationResult{}, fmt.Errorf("failed to parse verdict JSON: %w", err)
	}

	switch result.RiskLevel {
	case core.RiskLow, core.RiskMedium, core.RiskHigh:
	default:
		return core.ValidationResult{}, fmt.Errorf("unknown risk level %q", result.RiskLevel)
	}
	return result, nil
}

// buildJudgePrompt formats the article and evidence for the model.
func buildJudgePrompt(article core.RawArticle, evidence []search.Result) string {
	var b strings.Builder
	b.WriteString(judgeRubric)
	b.WriteString("\n\nArticle:\n")
	b.WriteString(fmt.Sprintf("Title: %s\nSource: %s\nPublished: %s\n\n%s\n",
		article.Title, article.SourceName, article.PublishedAt, article.Content))

	b.WriteString("\nEvidence:\n")
	if len(evidence) == 0 {
		b.WriteString("No corroborating sources were found.\n")
	}
	for i, result := range evidence {
		b.WriteString(fmt.Sprintf("[%d] %s (%s)\n    %s\n    %s\n",
			i+1, result.Title, result.Domain, result.URL, result.Content))
	}
	return b.String()
}

func verdictSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"is_verified": {
				Type:        genai.TypeBoolean,
				Description: "True only when a reputable source corroborates the core claim",
			},
			"confidence": {
				Type:        genai.TypeNumber,
				Description: "Verification confidence from 0 to 1",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "1-2 sentence verdict summary",
			},
			"conflicting_sources": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"supporting_sources": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"fact_check_notes": {
				Type:        genai.TypeString,
				Description: "Reasoning behind the verdict",
			},
			"risk_level": {
				Type: genai.TypeString,
				Enum: []string{"low", "medium", "high"},
			},
			"recommendation": {
				Type:        genai.TypeString,
				Description: "Short guidance for a reader of this article",
			},
		},
		Required: []string{"is_verified", "confidence", "summary", "fact_check_notes", "risk_level"},
	}
}
