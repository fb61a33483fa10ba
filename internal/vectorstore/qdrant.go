package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// QdrantStore is the primary tier: a minimal REST client to a Qdrant
// collection using cosine distance. Unlike the lower tiers it rejects
// vectors that do not match the collection dimension, so dimension bugs
// surface at insert time instead of as silently wrong rankings.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	dimensions int
	client     *http.Client
}

// QdrantConfig carries connection settings for the primary tier.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Dimensions int
	Timeout    time.Duration
}

// NewQdrantStore creates the client and ensures the collection exists.
func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "crypto_news"
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 768
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	s := &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
		client:     &http.Client{Timeout: timeout},
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     cfg.Dimensions,
			"distance": "Cosine",
		},
	}
	if err := s.putJSON(context.Background(), fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return nil, fmt.Errorf("failed to ensure collection %s: %w", s.collection, err)
	}
	return s, nil
}

// Add upserts one point. The vector dimension must match the collection.
func (s *QdrantStore) Add(ctx context.Context, content string, metadata map[string]any, vector []float64) (string, error) {
	if len(vector) != s.dimensions {
		return "", fmt.Errorf("vector dimension %d does not match collection dimension %d", len(vector), s.dimensions)
	}

	id := uuid.NewString()
	payload := map[string]any{"content": content}
	for k, v := range metadata {
		payload[k] = v
	}

	body := map[string]any{
		"points": []map[string]any{{
			"id":      id,
			"vector":  vector,
			"payload": payload,
		}},
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection)
	if err := s.putJSON(ctx, url, body); err != nil {
		return "", fmt.Errorf("failed to upsert point: %w", err)
	}
	return id, nil
}

// Search queries the collection, translating the metadata filter into a
// Qdrant must/match clause.
func (s *QdrantStore) Search(ctx context.Context, query Query) ([]Match, error) {
	if query.Limit <= 0 {
		query.Limit = 5
	}
	if len(query.Vector) != s.dimensions {
		return nil, fmt.Errorf("query dimension %d does not match collection dimension %d", len(query.Vector), s.dimensions)
	}

	req := map[string]any{
		"vector":       query.Vector,
		"limit":        query.Limit,
		"with_payload": true,
	}
	if query.MinScore > 0 {
		req["score_threshold"] = query.MinScore
	}
	if len(query.Filter) > 0 {
		var must []map[string]any
		for key, value := range query.Filter {
			must = append(must, map[string]any{
				"key":   key,
				"match": map[string]any{"value": value},
			})
		}
		req["filter"] = map[string]any{"must": must}
	}

	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := make([]Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		match := Match{
			ID:       fmt.Sprintf("%v", r.ID),
			Score:    r.Score,
			Metadata: r.Payload,
		}
		if content, ok := r.Payload["content"].(string); ok {
			match.Content = content
			delete(r.Payload, "content")
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Info reports the collection's point count.
func (s *QdrantStore) Info(ctx context.Context) (Info, error) {
	var resp struct {
		Result struct {
			PointsCount int64 `json:"points_count"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
	if err := s.getJSON(ctx, url, &resp); err != nil {
		return Info{}, fmt.Errorf("failed to read collection info: %w", err)
	}
	return Info{Name: "qdrant", DocumentCount: resp.Result.PointsCount, Dimensions: s.dimensions}, nil
}

func (s *QdrantStore) putJSON(ctx context.Context, url string, body any) error {
	return s.send(ctx, http.MethodPut, url, body, nil)
}

func (s *QdrantStore) postJSON(ctx context.Context, url string, body any, out any) error {
	return s.send(ctx, http.MethodPost, url, body, out)
}

func (s *QdrantStore) getJSON(ctx context.Context, url string, out any) error {
	return s.send(ctx, http.MethodGet, url, nil, out)
}

func (s *QdrantStore) send(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
