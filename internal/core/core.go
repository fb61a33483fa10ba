package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// MarketImpact classifies the expected market effect of a news article.
type MarketImpact string

const (
	ImpactLow    MarketImpact = "low"
	ImpactMedium MarketImpact = "medium"
	ImpactHigh   MarketImpact = "high"
)

// RiskLevel classifies the fact-check risk of acting on an article.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TimeCategory partitions articles by age.
type TimeCategory string

const (
	TimeBreaking   TimeCategory = "breaking"
	TimeRecent     TimeCategory = "recent"
	TimeHistorical TimeCategory = "historical"
)

// RawArticle is an immutable news article as delivered by the fetch layer.
type RawArticle struct {
	Title       string `json:"title"`        // Article headline
	Content     string `json:"content"`      // Full article body
	CryptoTopic string `json:"crypto_topic"` // Ticker symbol the article is about (e.g. "BTC")
	SourceName  string `json:"source_name"`  // Publisher name (e.g. "CoinDesk")
	SourceURL   string `json:"source_url"`   // Canonical URL of the article
	PublishedAt string `json:"published_at"` // ISO-8601 publication timestamp
}

// TemporalContext captures recency signals computed from the publication time.
type TemporalContext struct {
	HoursAgo       float64      `json:"hours_ago"`       // Hours since publication
	IsBreaking     bool         `json:"is_breaking"`     // Published less than 1 hour ago
	IsRecent       bool         `json:"is_recent"`       // Published less than 24 hours ago
	TimeCategory   TimeCategory `json:"time_category"`   // Coarse age bucket
	RelevanceScore float64      `json:"relevance_score"` // Monotonic decay score in [0,1]
}

// EnrichmentResult is the structured output of the AI enrichment capability.
type EnrichmentResult struct {
	Sentiment     float64      `json:"sentiment"`      // Sentiment score in [0,1], 0.5 is neutral
	Trust         float64      `json:"trust"`          // Source trust score in [0,1]
	Categories    []string     `json:"categories"`     // Topical categories
	MacroCategory string       `json:"macro_category"` // Top-level category (e.g. "Finance")
	Summary       string       `json:"summary"`        // Short free-text summary
	UrgencyScore  float64      `json:"urgency_score"`  // Urgency in [0,1]
	MarketImpact  MarketImpact `json:"market_impact"`  // Expected market effect
	TimeRelevance string       `json:"time_relevance"` // Relevance window (e.g. "recent")
	Fallback      bool         `json:"fallback"`       // True when the documented fallback values were applied
}

// Chunk is one article's denormalized, search-optimized text and metadata unit.
// It is never mutated after creation; validation data is attached additively
// under the metadata "validation" key.
type Chunk struct {
	ArticleID  string           `json:"article_id"` // Deterministic hash of (topic, published_at, title)
	Text       string           `json:"text"`       // Searchable text blob that gets embedded
	Metadata   map[string]any   `json:"metadata"`   // Storage-bound metadata record
	Temporal   TemporalContext  `json:"temporal"`
	Enrichment EnrichmentResult `json:"enrichment"`
}

// EmbeddedChunk is a Chunk plus its vector representations.
type EmbeddedChunk struct {
	Chunk
	DenseVector   []float64       `json:"dense_vector,omitempty"` // Fixed-dimension embedding, nil when the embedder failed
	SparseVector  map[int]float64 `json:"sparse_vector"`          // Term-index to weight, nonzero entries only
	VectorMissing bool            `json:"vector_missing"`         // True when the dense embedding could not be generated
}

// ValidationResult is the structured verdict of the fact-check validator.
type ValidationResult struct {
	IsVerified         bool      `json:"is_verified"`
	Confidence         float64   `json:"confidence"` // Verification confidence in [0,1]
	Summary            string    `json:"summary"`
	ConflictingSources []string  `json:"conflicting_sources"` // URLs contradicting the article's claims
	SupportingSources  []string  `json:"supporting_sources"`  // URLs corroborating the article's claims
	FactCheckNotes     string    `json:"fact_check_notes"`
	RiskLevel          RiskLevel `json:"risk_level"`
	Recommendation     string    `json:"recommendation"`
}

// VectorDocument is the storage entity owned by whichever store tier accepted it.
type VectorDocument struct {
	ID        string         `json:"id"`       // Content hash or generated UUID
	Content   string         `json:"content"`  // Stored text
	Metadata  map[string]any `json:"metadata"` // Open-ended metadata mapping
	Vector    []float64      `json:"vector"`   // Dense vector
	CreatedAt time.Time      `json:"created_at"`
}

// ArticleID derives the deterministic, stable identifier for an article.
// The same (topic, published_at, title) triple always yields the same id,
// which makes re-processing idempotent.
func ArticleID(topic, publishedAt, title string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", topic, publishedAt, title)))
	return hex.EncodeToString(sum[:16])
}
