package vectorstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// LocalDimensions is the fixed dimension of the local tier's fallback text
// vectors. Foreign vectors are padded or truncated to this size.
const LocalDimensions = 384

// LocalStore is the bottom storage tier: a SQLite database with brute-force
// cosine search. It never depends on the network and is the durability floor
// for every document the pipeline produces.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore opens (or creates) the SQLite database at path and ensures
// the documents table exists.
func NewLocalStore(path string) (*LocalStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		metadata TEXT NOT NULL,
		vector TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &LocalStore{db: db}, nil
}

// Close releases the underlying database handle.
func (l *LocalStore) Close() error {
	return l.db.Close()
}

// Add stores a document. When vector is nil a deterministic text vector is
// derived from the content so the document stays searchable without any
// embedding service. The id is a hash of content and insertion time.
func (l *LocalStore) Add(ctx context.Context, content string, metadata map[string]any, vector []float64) (string, error) {
	now := time.Now().UTC()
	if vector == nil {
		vector = TextVector(content)
	} else {
		vector = FitDimension(vector, LocalDimensions)
	}

	id := documentID(content, now)

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	vecJSON, err := json.Marshal(vector)
	if err != nil {
		return "", fmt.Errorf("failed to encode vector: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, content, metadata, vector, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, content, string(metaJSON), string(vecJSON), now)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

// Search scans every stored document and ranks by cosine similarity. Linear
// scan is fine at local-tier scale.
func (l *LocalStore) Search(ctx context.Context, query Query) ([]Match, error) {
	if query.Limit <= 0 {
		query.Limit = 5
	}
	vector := FitDimension(query.Vector, LocalDimensions)

	rows, err := l.db.QueryContext(ctx, `SELECT id, content, metadata, vector FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var id, content, metaJSON, vecJSON string
		if err := rows.Scan(&id, &content, &metaJSON, &vecJSON); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
			return nil, fmt.Errorf("corrupt metadata for document %s: %w", id, err)
		}
		if !matchesFilter(metadata, query.Filter) {
			continue
		}

		var stored []float64
		if err := json.Unmarshal([]byte(vecJSON), &stored); err != nil {
			return nil, fmt.Errorf("corrupt vector for document %s: %w", id, err)
		}

		score := CosineSimilarity(vector, stored)
		if score < query.MinScore {
			continue
		}
		matches = append(matches, Match{ID: id, Score: score, Content: content, Metadata: metadata})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > query.Limit {
		matches = matches[:query.Limit]
	}
	return matches, nil
}

// Info reports the document count of the local tier.
func (l *LocalStore) Info(ctx context.Context) (Info, error) {
	var count int64
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return Info{}, fmt.Errorf("failed to count documents: %w", err)
	}
	return Info{Name: "local", DocumentCount: count, Dimensions: LocalDimensions}, nil
}

// TextVector derives a deterministic vector from raw text: letter and digit
// frequencies plus a handful of length features, normalized to unit length.
// It is a stand-in for a real embedding, good enough for the offline tier to
// keep ranking stable and repeatable.
func TextVector(text string) []float64 {
	vector := make([]float64, LocalDimensions)
	lowered := strings.ToLower(text)

	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z':
			vector[int(r-'a')]++
		case r >= '0' && r <= '9':
			vector[26+int(r-'0')]++
		}
	}

	words := strings.Fields(lowered)
	vector[36] = float64(len(lowered))
	vector[37] = float64(len(words))
	for _, w := range words {
		// Bucket each word by length and leading letter to spread signal
		// past the frequency block.
		idx := 38 + (len(w)*31+int(w[0]))%(LocalDimensions-38)
		vector[idx]++
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector
}

func documentID(content string, at time.Time) string {
	sum := sha256.Sum256([]byte(content + at.Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:16])
}

// matchesFilter applies an exact-match metadata filter. Numeric comparisons
// go through float64 because JSON round-trips integers that way.
func matchesFilter(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}
