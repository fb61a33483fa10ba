package pipeline

import (
	"context"

	"cryptobrief/internal/core"
	"cryptobrief/internal/factcheck"
)

// Enricher produces AI enrichment for an article
type Enricher interface {
	// Enrich analyzes one article and returns sentiment, categories,
	// urgency and market impact
	Enrich(ctx context.Context, article core.RawArticle) (core.EnrichmentResult, error)
}

// DenseEmbedder creates semantic embedding vectors for text
type DenseEmbedder interface {
	// Embed returns the dense embedding for one text
	Embed(ctx context.Context, text string) ([]float64, error)
}

// DocumentStore persists embedded chunks for retrieval
type DocumentStore interface {
	// Add stores a document and returns its id
	Add(ctx context.Context, content string, metadata map[string]any, vector []float64) (string, error)
}

// Validator fact-checks a batch of articles against web evidence
type Validator interface {
	// ValidateBatch returns one result per input article, in order
	ValidateBatch(ctx context.Context, articles []core.RawArticle) ([]core.ValidationResult, factcheck.BatchSummary)
}
