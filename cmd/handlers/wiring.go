package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cryptobrief/internal/config"
	"cryptobrief/internal/core"
	"cryptobrief/internal/logger"
	"cryptobrief/internal/vectorstore"
)

// loadArticles reads a JSON array of raw articles from a file.
func loadArticles(path string) ([]core.RawArticle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var articles []core.RawArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles found in %s", path)
	}
	return articles, nil
}

// buildStore assembles the tiered vector store from configuration. The local
// SQLite tier is always created; Qdrant and pgvector join only when
// configured, and a remote tier that fails to come up is skipped with a
// warning rather than aborting the run.
func buildStore(cfg *config.Config) (*vectorstore.TieredStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Local.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	local, err := vectorstore.NewLocalStore(cfg.Store.Local.Path)
	if err != nil {
		return nil, err
	}

	var primary, secondary vectorstore.VectorStore
	if cfg.Store.Qdrant.URL != "" {
		qdrant, err := vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
			URL:        cfg.Store.Qdrant.URL,
			APIKey:     cfg.Store.Qdrant.APIKey,
			Collection: cfg.Store.Qdrant.Collection,
			Dimensions: cfg.Gemini.Dimensions,
			Timeout:    cfg.Store.Qdrant.TimeoutDuration(),
		})
		if err != nil {
			logger.Warn("qdrant tier unavailable", "error", err.Error())
		} else {
			primary = qdrant
		}
	}
	if cfg.Store.Postgres.DSN != "" {
		pg, err := vectorstore.NewPgVectorStore(cfg.Store.Postgres.DSN, cfg.Gemini.Dimensions)
		if err != nil {
			logger.Warn("pgvector tier unavailable", "error", err.Error())
		} else {
			secondary = pg
		}
	}

	return vectorstore.NewTieredStore(local, secondary, primary)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
