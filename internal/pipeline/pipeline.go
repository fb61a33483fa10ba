package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cryptobrief/internal/chunk"
	"cryptobrief/internal/core"
	"cryptobrief/internal/embedding"
	"cryptobrief/internal/enrich"
	"cryptobrief/internal/factcheck"
	"cryptobrief/internal/graph"
	"cryptobrief/internal/logger"
	"cryptobrief/internal/temporal"
)

// Pipeline orchestrates article processing end to end: temporal context,
// enrichment, chunking, embedding, optional validation and storage.
type Pipeline struct {
	enricher  Enricher
	embedder  DenseEmbedder
	store     DocumentStore
	validator Validator

	config *Config
}

// Config holds pipeline settings.
type Config struct {
	// ValidateArticles enables the fact-check stage. It requires a
	// configured Validator.
	ValidateArticles bool

	// TopCategoryCount caps the number of categories reported in the
	// batch statistics.
	TopCategoryCount int
}

// DefaultConfig returns the default pipeline settings.
func DefaultConfig() *Config {
	return &Config{
		ValidateArticles: false,
		TopCategoryCount: 5,
	}
}

// NewPipeline creates a pipeline. The enricher and store are required; the
// embedder and validator may be nil, which disables dense vectors and
// validation respectively.
func NewPipeline(enricher Enricher, embedder DenseEmbedder, store DocumentStore, validator Validator, config *Config) (*Pipeline, error) {
	if enricher == nil {
		return nil, fmt.Errorf("enricher is required")
	}
	if store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &Pipeline{
		enricher:  enricher,
		embedder:  embedder,
		store:     store,
		validator: validator,
		config:    config,
	}, nil
}

// Result is the pipeline's output for one article.
type Result struct {
	Chunk      core.EmbeddedChunk `json:"chunk"`
	Graph      graph.Record       `json:"graph"`
	DocumentID string             `json:"document_id"`
}

// BatchResult aggregates a whole run.
type BatchResult struct {
	Results    []Result                `json:"results"`
	Stats      BatchStats              `json:"stats"`
	Validation *factcheck.BatchSummary `json:"validation,omitempty"`
}

// BatchStats tracks processing metrics for one batch.
type BatchStats struct {
	TotalArticles  int                         `json:"total_articles"`
	Processed      int                         `json:"processed"`
	Dropped        int                         `json:"dropped"`
	Fallbacks      int                         `json:"fallbacks"`
	BreakingCount  int                         `json:"breaking_count"`
	RecentCount    int                         `json:"recent_count"`
	AvgSentiment   float64                     `json:"avg_sentiment"`
	ImpactCounts   map[core.MarketImpact]int   `json:"impact_counts"`
	TopCategories  []string                    `json:"top_categories"`
	ProcessingTime time.Duration               `json:"processing_time"`
}

// Process runs the batch. Enrichment failures degrade to the documented
// fallback and never drop an article; embedding and storage failures drop
// only the affected article. The returned error is reserved for failures
// that invalidate the whole batch.
func (p *Pipeline) Process(ctx context.Context, articles []core.RawArticle) (*BatchResult, error) {
	start := time.Now()
	now := start.UTC()

	stats := BatchStats{
		TotalArticles: len(articles),
		ImpactCounts:  map[core.MarketImpact]int{},
	}

	var validations []core.ValidationResult
	var validationSummary *factcheck.BatchSummary
	if p.config.ValidateArticles && p.validator != nil {
		results, summary := p.validator.ValidateBatch(ctx, articles)
		validations = results
		validationSummary = &summary
	}

	categoryCounts := map[string]int{}
	results := make([]Result, 0, len(articles))
	var sentimentSum float64

	for i, article := range articles {
		tc := temporal.Enhance(article, now)

		enrichment, err := p.enricher.Enrich(ctx, article)
		if err != nil {
			logger.Warn("enrichment failed, using fallback",
				"title", article.Title, "error", err.Error())
			enrichment = enrich.Fallback(article.Content)
		}
		if enrichment.Fallback {
			stats.Fallbacks++
		}

		c := chunk.Build(article, tc, enrichment)
		if i < len(validations) {
			chunk.AttachValidation(&c, validations[i])
		}

		embedded := core.EmbeddedChunk{
			Chunk:        c,
			SparseVector: embedding.SparseVector(c.Text),
		}
		if p.embedder != nil {
			vector, err := p.embedder.Embed(ctx, c.Text)
			if err != nil {
				logger.Error("embedding failed, dropping article", err, "title", article.Title)
				stats.Dropped++
				continue
			}
			embedded.DenseVector = vector
		} else {
			embedded.VectorMissing = true
		}

		id, err := p.store.Add(ctx, c.Text, c.Metadata, embedded.DenseVector)
		if err != nil {
			logger.Error("storage failed, dropping article", err, "title", article.Title)
			stats.Dropped++
			continue
		}

		results = append(results, Result{
			Chunk:      embedded,
			Graph:      graph.BuildRecord(c, article),
			DocumentID: id,
		})

		stats.Processed++
		sentimentSum += enrichment.Sentiment
		stats.ImpactCounts[enrichment.MarketImpact]++
		if tc.IsBreaking {
			stats.BreakingCount++
		}
		if tc.IsRecent {
			stats.RecentCount++
		}
		for _, category := range enrichment.Categories {
			categoryCounts[category]++
		}
	}

	if stats.Processed > 0 {
		stats.AvgSentiment = sentimentSum / float64(stats.Processed)
	}
	stats.TopCategories = topCategories(categoryCounts, p.config.TopCategoryCount)
	stats.ProcessingTime = time.Since(start)

	logger.Info("batch processed",
		"total", stats.TotalArticles,
		"processed", stats.Processed,
		"dropped", stats.Dropped,
		"fallbacks", stats.Fallbacks,
		"duration", stats.ProcessingTime.String())

	return &BatchResult{Results: results, Stats: stats, Validation: validationSummary}, nil
}

// topCategories returns the n most frequent categories, ties broken
// alphabetically so the output is stable.
func topCategories(counts map[string]int, n int) []string {
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > n {
		categories = categories[:n]
	}
	return categories
}
