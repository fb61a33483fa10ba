package embedding

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

const (
	// DefaultEmbeddingModel is the default model for dense embeddings.
	DefaultEmbeddingModel = "gemini-embedding-001"
	// DefaultDimensions is the embedding output size (Matryoshka), matching
	// the remote vector store configuration.
	DefaultDimensions = int32(768)
)

// DenseEmbedder produces fixed-length embedding vectors for text.
type DenseEmbedder interface {
	// Embed returns a dense vector for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)
}

// GeminiEmbedder implements DenseEmbedder using the Gemini embedding API.
type GeminiEmbedder struct {
	client     *genai.Client
	modelName  string
	dimensions int32
}

// NewGeminiEmbedder creates an embedder backed by the Gemini API. The API key
// is read from GEMINI_API_KEY or the gemini.api_key config entry.
func NewGeminiEmbedder(ctx context.Context) (*GeminiEmbedder, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = viper.GetString("gemini.api_key")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or gemini.api_key in the config file")
	}

	modelName := viper.GetString("gemini.embedding_model")
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client:     client,
		modelName:  modelName,
		dimensions: DefaultDimensions,
	}, nil
}

// Embed generates a dense vector for the given text.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: text}},
		Role:  "user",
	}}

	dims := g.dimensions
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.modelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding values returned from API")
	}

	values := resp.Embeddings[0].Values
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}
	return vector, nil
}
