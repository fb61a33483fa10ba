package factcheck

import (
	"context"
	"fmt"
	"strings"

	"cryptobrief/internal/core"
	"cryptobrief/internal/logger"
	"cryptobrief/internal/search"
)

// Judge is the external reasoning capability that weighs an article against
// search evidence and returns a structured verdict.
type Judge interface {
	// Judge compares the article's claims against the evidence and scores
	// verification confidence and risk.
	Judge(ctx context.Context, article core.RawArticle, evidence []search.Result) (core.ValidationResult, error)
}

// Validator runs the search-then-judge fact-check flow per article:
// claim extraction, web search over an allow-list of news domains, and an
// LLM verdict. Every failure degrades to a conservative unverified result;
// Validate never returns an error.
type Validator struct {
	searcher     search.Provider
	judge        Judge
	searchConfig search.Config
}

// NewValidator creates a validator with the default fact-check search config.
func NewValidator(searcher search.Provider, judge Judge) *Validator {
	return &Validator{
		searcher:     searcher,
		judge:        judge,
		searchConfig: search.DefaultConfig(),
	}
}

// Validate fact-checks a single article. It never panics or returns an
// error: search failures degrade to "no evidence" and judgment failures
// degrade to an unverified, high-risk verdict carrying the error text.
func (v *Validator) Validate(ctx context.Context, article core.RawArticle) core.ValidationResult {
	query := BuildQuery(article)

	evidence, err := v.searcher.Search(ctx, query, v.searchConfig)
	if err != nil {
		logger.Warn("fact-check search failed, continuing without evidence",
			"query", query, "error", err.Error())
		evidence = nil
	}

	result, err := v.judge.Judge(ctx, article, evidence)
	if err != nil {
		return unverifiedResult(fmt.Sprintf("fact-check judgment failed: %v", err))
	}
	if result.FactCheckNotes == "" {
		result.FactCheckNotes = fmt.Sprintf("checked against %d sources for query %q", len(evidence), query)
	}
	return result
}

// BatchSummary aggregates validation results across a batch.
type BatchSummary struct {
	TotalArticles    int                    `json:"total_articles"`
	VerifiedCount    int                    `json:"verified_count"`
	VerificationRate float64                `json:"verification_rate"`
	AvgConfidence    float64                `json:"avg_confidence"`
	RiskDistribution map[core.RiskLevel]int `json:"risk_distribution"`
}

// ValidateBatch validates articles sequentially, preserving input order so
// results can be merged back by position. It also computes the aggregate
// summary.
func (v *Validator) ValidateBatch(ctx context.Context, articles []core.RawArticle) ([]core.ValidationResult, BatchSummary) {
	results := make([]core.ValidationResult, 0, len(articles))
	summary := BatchSummary{
		TotalArticles:    len(articles),
		RiskDistribution: make(map[core.RiskLevel]int),
	}

	var totalConfidence float64
	for _, article := range articles {
		result := v.Validate(ctx, article)
		results = append(results, result)

		if result.IsVerified {
			summary.VerifiedCount++
		}
		totalConfidence += result.Confidence
		summary.RiskDistribution[result.RiskLevel]++
	}

	if len(articles) > 0 {
		summary.VerificationRate = float64(summary.VerifiedCount) / float64(len(articles))
		summary.AvgConfidence = totalConfidence / float64(len(articles))
	}
	return results, summary
}

// unverifiedResult is the terminal verdict for any fact-check failure.
func unverifiedResult(notes string) core.ValidationResult {
	return core.ValidationResult{
		IsVerified:     false,
		Confidence:     0,
		Summary:        "Fact check could not be completed",
		FactCheckNotes: notes,
		RiskLevel:      core.RiskHigh,
		Recommendation: "Treat with caution until independently verified",
	}
}

// claimCategory pairs trigger keywords with a fact-check query template.
type claimCategory struct {
	name     string
	keywords []string
	template string
}

var claimCategories = []claimCategory{
	{
		name:     "price movement",
		keywords: []string{"surge", "soar", "crash", "plunge", "rally", "drop", "all-time high", "ath", "price"},
		template: "%s price movement verification",
	},
	{
		name:     "regulatory",
		keywords: []string{"sec", "regulation", "regulatory", "lawsuit", "ban", "approval", "etf", "compliance"},
		template: "%s regulatory news verification",
	},
	{
		name:     "institutional adoption",
		keywords: []string{"institutional", "etf inflow", "blackrock", "fidelity", "treasury", "adoption", "custody"},
		template: "%s institutional adoption news",
	},
	{
		name:     "technical development",
		keywords: []string{"upgrade", "fork", "mainnet", "protocol", "launch", "testnet", "halving"},
		template: "%s network development news",
	},
}

// BuildQuery derives a short fact-check query from the article title using
// keyword heuristics over the claim categories. When several categories
// match, their templates are combined; when none match, a generic market
// developments query is used.
func BuildQuery(article core.RawArticle) string {
	topic := article.CryptoTopic
	if topic == "" {
		topic = "crypto"
	}
	title := strings.ToLower(article.Title)

	var parts []string
	for _, category := range claimCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(title, keyword) {
				parts = append(parts, fmt.Sprintf(category.template, topic))
				break
			}
		}
		if len(parts) >= 2 {
			break
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s market developments %s", topic, article.Title)
	}
	return strings.Join(parts, " ")
}
