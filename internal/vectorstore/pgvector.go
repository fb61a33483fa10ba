package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PgVectorStore is the secondary tier: PostgreSQL with the pgvector
// extension. It sits between Qdrant and the local SQLite floor, so like the
// local tier it fits foreign vectors to its own dimension instead of
// rejecting them.
type PgVectorStore struct {
	db         *sql.DB
	dimensions int
}

// NewPgVectorStore connects to PostgreSQL and ensures the pgvector extension
// and documents table exist.
func NewPgVectorStore(dsn string, dimensions int) (*PgVectorStore, error) {
	if dimensions <= 0 {
		dimensions = 768
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY,
		content TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}',
		embedding vector(%d),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, dimensions)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &PgVectorStore{db: db, dimensions: dimensions}, nil
}

// Close releases the database handle.
func (p *PgVectorStore) Close() error {
	return p.db.Close()
}

// Add inserts a document with a freshly generated UUID.
func (p *PgVectorStore) Add(ctx context.Context, content string, metadata map[string]any, vector []float64) (string, error) {
	id := uuid.NewString()
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	vectorStr := formatVector(FitDimension(vector, p.dimensions))

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO documents (id, content, metadata, embedding) VALUES ($1, $2, $3, $4::vector)`,
		id, content, string(metaJSON), vectorStr)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

// Search ranks by cosine distance using the <=> operator. Metadata filters
// translate to JSONB text comparisons.
func (p *PgVectorStore) Search(ctx context.Context, query Query) ([]Match, error) {
	if query.Limit <= 0 {
		query.Limit = 5
	}
	vectorStr := formatVector(FitDimension(query.Vector, p.dimensions))

	var conditions []string
	args := []any{vectorStr, query.MinScore, query.Limit}
	for key, value := range query.Filter {
		args = append(args, key, fmt.Sprintf("%v", value))
		conditions = append(conditions, fmt.Sprintf("AND metadata->>$%d = $%d", len(args)-1, len(args)))
	}

	sqlQuery := fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1::vector) AS similarity
		FROM documents
		WHERE embedding IS NOT NULL
		  AND 1 - (embedding <=> $1::vector) >= $2
		  %s
		ORDER BY embedding <=> $1::vector
		LIMIT $3
	`, strings.Join(conditions, "\n\t\t  "))

	rows, err := p.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var match Match
		var metaJSON string
		if err := rows.Scan(&match.ID, &match.Content, &metaJSON, &match.Score); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &match.Metadata); err != nil {
			return nil, fmt.Errorf("corrupt metadata for document %s: %w", match.ID, err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return matches, nil
}

// Info reports the document count of the secondary tier.
func (p *PgVectorStore) Info(ctx context.Context) (Info, error) {
	var count int64
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return Info{}, fmt.Errorf("failed to count documents: %w", err)
	}
	return Info{Name: "pgvector", DocumentCount: count, Dimensions: p.dimensions}, nil
}

// formatVector renders a []float64 in pgvector's literal syntax: [1,2,3].
func formatVector(vector []float64) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
