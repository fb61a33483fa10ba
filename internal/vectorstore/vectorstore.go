package vectorstore

import (
	"context"
	"math"
)

// VectorStore is the storage capability implemented by every tier.
type VectorStore interface {
	// Add persists a document and returns its id. The id is a content hash
	// where the tier derives one, otherwise a generated UUID.
	Add(ctx context.Context, content string, metadata map[string]any, vector []float64) (string, error)

	// Search returns the top matches for a query vector, ordered by score
	// descending.
	Search(ctx context.Context, query Query) ([]Match, error)

	// Info returns statistics about the tier.
	Info(ctx context.Context) (Info, error)
}

// Query configures a similarity search.
type Query struct {
	Vector   []float64      // Query embedding; tiers fit it to their own dimension
	Limit    int            // Maximum number of matches (default 5)
	Filter   map[string]any // Exact-match metadata filter, nil for none
	MinScore float64        // Minimum cosine similarity, 0 for no threshold
}

// Match is one search hit.
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"` // Cosine similarity in [-1,1]
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// Info describes a tier's state.
type Info struct {
	Name          string `json:"name"`
	DocumentCount int64  `json:"document_count"`
	Dimensions    int    `json:"dimensions"`
}

// CosineSimilarity computes the cosine similarity between two vectors of the
// same length.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FitDimension deterministically pads a vector with zeros or truncates it to
// the given size. Used by the local and secondary tiers, which accept foreign
// vectors; the primary tier rejects mismatches instead.
func FitDimension(vector []float64, size int) []float64 {
	if len(vector) == size {
		return vector
	}
	fitted := make([]float64, size)
	copy(fitted, vector)
	return fitted
}
