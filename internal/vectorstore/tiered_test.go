package vectorstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// fakeTier is an in-memory VectorStore with scriptable failures. It counts
// every call so tests can assert that latched tiers are no longer tried.
type fakeTier struct {
	name        string
	addErr      error
	searchErr   error
	matches     []Match
	added       int
	addCalls    int
	searchCalls int
}

func (f *fakeTier) Add(ctx context.Context, content string, metadata map[string]any, vector []float64) (string, error) {
	f.addCalls++
	if f.addErr != nil {
		return "", f.addErr
	}
	f.added++
	return "fake-id", nil
}

func (f *fakeTier) Search(ctx context.Context, query Query) ([]Match, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

func (f *fakeTier) Info(ctx context.Context) (Info, error) {
	return Info{Name: f.name, DocumentCount: int64(f.added)}, nil
}

func newTiered(t *testing.T, secondary, primary VectorStore) *TieredStore {
	t.Helper()
	local, err := NewLocalStore(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { local.Close() })

	tiered, err := NewTieredStore(local, secondary, primary)
	if err != nil {
		t.Fatal(err)
	}
	return tiered
}

func TestTieredStore_RequiresLocal(t *testing.T) {
	if _, err := NewTieredStore(nil, nil, nil); err == nil {
		t.Error("expected an error when the local tier is missing")
	}
}

func TestTieredStore_AddMirrorsToPrimary(t *testing.T) {
	primary := &fakeTier{name: "qdrant"}
	tiered := newTiered(t, nil, primary)

	id, err := tiered.Add(context.Background(), "doc", nil, nil)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if id == "" {
		t.Error("expected the local document id")
	}
	if primary.added != 1 {
		t.Errorf("expected 1 mirrored insert, got %d", primary.added)
	}
	if tiered.InFallbackMode() {
		t.Error("successful mirroring must not trip the fallback latch")
	}
}

func TestTieredStore_PrimaryInsertFailureKeepsLocalCopy(t *testing.T) {
	primary := &fakeTier{name: "qdrant", addErr: errors.New("connection refused")}
	tiered := newTiered(t, nil, primary)
	ctx := context.Background()

	content := "bitcoin breaks fifty thousand"
	if _, err := tiered.Add(ctx, content, nil, nil); err != nil {
		t.Fatalf("primary failure must not fail the insert: %v", err)
	}
	if !tiered.InFallbackMode() {
		t.Error("primary failure must trip the fallback latch")
	}

	// Primary also fails at search time, so the local copy must answer.
	primary.searchErr = errors.New("still down")
	matches, err := tiered.Search(ctx, Query{Vector: TextVector(content)})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected the document to survive in the local tier, got %d matches", len(matches))
	}
}

func TestTieredStore_SearchPrefersPrimary(t *testing.T) {
	primary := &fakeTier{name: "qdrant", matches: []Match{{ID: "p1", Score: 0.9}}}
	secondary := &fakeTier{name: "pgvector", matches: []Match{{ID: "s1", Score: 0.5}}}
	tiered := newTiered(t, secondary, primary)

	matches, err := tiered.Search(context.Background(), Query{Vector: TextVector("x")})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != "p1" {
		t.Errorf("expected the primary tier's answer, got %+v", matches)
	}
}

func TestTieredStore_SearchFallsThroughEmptyTiers(t *testing.T) {
	primary := &fakeTier{name: "qdrant"} // answers with no matches
	secondary := &fakeTier{name: "pgvector", matches: []Match{{ID: "s1", Score: 0.5}}}
	tiered := newTiered(t, secondary, primary)

	matches, err := tiered.Search(context.Background(), Query{Vector: TextVector("x")})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != "s1" {
		t.Errorf("expected the secondary tier's answer, got %+v", matches)
	}
	if tiered.InFallbackMode() {
		t.Error("an empty answer is not a failure and must not trip the latch")
	}
}

func TestTieredStore_FallbackLatchAndReset(t *testing.T) {
	primary := &fakeTier{name: "qdrant", searchErr: errors.New("timeout")}
	tiered := newTiered(t, nil, primary)
	ctx := context.Background()

	if _, err := tiered.Search(ctx, Query{Vector: TextVector("x")}); err != nil {
		t.Fatal(err)
	}
	if !tiered.InFallbackMode() {
		t.Fatal("search failure must trip the latch")
	}

	// Once latched, the primary is skipped even after it recovers; the
	// latch also stays visible until Reset.
	primary.searchErr = nil
	primary.matches = []Match{{ID: "p1", Score: 0.9}}
	matches, err := tiered.Search(ctx, Query{Vector: TextVector("x")})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("latched primary must not serve results, got %+v", matches)
	}
	if primary.searchCalls != 1 {
		t.Errorf("latched primary must not be tried again, got %d calls", primary.searchCalls)
	}
	if !tiered.InFallbackMode() {
		t.Error("latch must stay set until Reset")
	}

	tiered.Reset()
	if tiered.InFallbackMode() {
		t.Error("Reset must clear the latch")
	}

	// Reset re-enables the recovered primary.
	matches, err = tiered.Search(ctx, Query{Vector: TextVector("x")})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != "p1" {
		t.Errorf("expected the primary's answer after Reset, got %+v", matches)
	}
	if primary.searchCalls != 2 {
		t.Errorf("expected the primary to be tried again after Reset, got %d calls", primary.searchCalls)
	}

	info, err := tiered.Info(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.FallbackMode {
		t.Error("info must report the cleared latch")
	}
}

func TestTieredStore_LatchedPrimarySkippedOnInsert(t *testing.T) {
	primary := &fakeTier{name: "qdrant", addErr: errors.New("connection refused")}
	secondary := &fakeTier{name: "pgvector"}
	tiered := newTiered(t, secondary, primary)
	ctx := context.Background()

	if _, err := tiered.Add(ctx, "first", nil, nil); err != nil {
		t.Fatal(err)
	}
	if primary.addCalls != 1 {
		t.Fatalf("expected one attempt against the primary, got %d", primary.addCalls)
	}

	// Later inserts skip the dead primary and mirror to the secondary.
	for i := 0; i < 3; i++ {
		if _, err := tiered.Add(ctx, "later", nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	if primary.addCalls != 1 {
		t.Errorf("latched primary must not be tried again, got %d calls", primary.addCalls)
	}
	if secondary.added != 3 {
		t.Errorf("expected inserts mirrored to the secondary, got %d", secondary.added)
	}
}

func TestTieredStore_LatchedSecondaryDoesNotDisablePrimary(t *testing.T) {
	primary := &fakeTier{name: "qdrant", matches: []Match{{ID: "p1", Score: 0.9}}}
	secondary := &fakeTier{name: "pgvector", searchErr: errors.New("timeout")}
	tiered := newTiered(t, secondary, primary)
	ctx := context.Background()

	// Empty primary forces the walk into the failing secondary.
	primary.matches = nil
	if _, err := tiered.Search(ctx, Query{Vector: TextVector("x")}); err != nil {
		t.Fatal(err)
	}
	if !tiered.InFallbackMode() {
		t.Fatal("secondary failure must trip the latch")
	}

	primary.matches = []Match{{ID: "p1", Score: 0.9}}
	matches, err := tiered.Search(ctx, Query{Vector: TextVector("x")})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ID != "p1" {
		t.Errorf("healthy primary must keep serving, got %+v", matches)
	}
	if secondary.searchCalls != 1 {
		t.Errorf("latched secondary must not be tried again, got %d calls", secondary.searchCalls)
	}
}
