package vectorstore

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func openLocal(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLocalStore_SelfSearch(t *testing.T) {
	store := openLocal(t)
	ctx := context.Background()

	content := "Bitcoin broke through fifty thousand dollars on heavy volume"
	id, err := store.Add(ctx, content, map[string]any{"topic": "BTC"}, nil)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty document id")
	}

	matches, err := store.Search(ctx, Query{Vector: TextVector(content), Limit: 5})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if math.Abs(matches[0].Score-1.0) > 1e-9 {
		t.Errorf("self search should score 1.0, got %f", matches[0].Score)
	}
	if matches[0].Content != content {
		t.Errorf("unexpected content %q", matches[0].Content)
	}
}

func TestLocalStore_EmptySearch(t *testing.T) {
	store := openLocal(t)

	matches, err := store.Search(context.Background(), Query{Vector: TextVector("anything")})
	if err != nil {
		t.Fatalf("search on empty store must not error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestLocalStore_MetadataFilter(t *testing.T) {
	store := openLocal(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, "bitcoin rally continues", map[string]any{"topic": "BTC"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add(ctx, "ethereum upgrade shipped", map[string]any{"topic": "ETH"}, nil); err != nil {
		t.Fatal(err)
	}

	matches, err := store.Search(ctx, Query{
		Vector: TextVector("crypto news"),
		Limit:  10,
		Filter: map[string]any{"topic": "ETH"},
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 filtered match, got %d", len(matches))
	}
	if matches[0].Metadata["topic"] != "ETH" {
		t.Errorf("filter leaked a wrong document: %+v", matches[0].Metadata)
	}
}

func TestLocalStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")
	ctx := context.Background()

	store, err := NewLocalStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add(ctx, "persistent document", nil, nil); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := NewLocalStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	info, err := reopened.Info(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.DocumentCount != 1 {
		t.Errorf("expected 1 document after reopen, got %d", info.DocumentCount)
	}
}

func TestTextVector_Deterministic(t *testing.T) {
	a := TextVector("Bitcoin ETF inflows hit a record")
	b := TextVector("Bitcoin ETF inflows hit a record")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at index %d", i)
		}
	}

	var norm float64
	for _, v := range a {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestFitDimension(t *testing.T) {
	short := FitDimension([]float64{1, 2}, 4)
	if len(short) != 4 || short[2] != 0 || short[3] != 0 {
		t.Errorf("expected zero padding, got %v", short)
	}
	long := FitDimension([]float64{1, 2, 3, 4}, 2)
	if len(long) != 2 || long[0] != 1 || long[1] != 2 {
		t.Errorf("expected truncation, got %v", long)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors should score 0, got %f", got)
	}
	if got := CosineSimilarity([]float64{1, 1}, []float64{1, 1}); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical vectors should score 1, got %f", got)
	}
	if got := CosineSimilarity([]float64{1, 0}, []float64{0, 0}); got != 0 {
		t.Errorf("zero vector should score 0, got %f", got)
	}
	if got := CosineSimilarity([]float64{1}, []float64{1, 2}); got != 0 {
		t.Errorf("mismatched lengths should score 0, got %f", got)
	}
}
