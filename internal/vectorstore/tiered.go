package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"cryptobrief/internal/logger"
)

// TieredStore layers up to three tiers: the local SQLite floor (always
// present), an optional pgvector secondary, and an optional Qdrant primary.
// Every insert lands in the local tier first so a document can never be lost
// to a remote outage; remote inserts are best effort. Searches walk from the
// preferred tier down and stop at the first tier that answers.
//
// A remote tier that fails is latched as down and skipped on every later
// call, so a dead backend does not cost its timeout again on each request.
// Reset re-enables all tiers.
type TieredStore struct {
	local     *LocalStore
	secondary VectorStore
	primary   VectorStore

	mu           sync.Mutex
	fallbackMode bool
	fallbackFrom string
	down         map[string]bool
}

// NewTieredStore wires the tiers together. Local is mandatory; pass nil for
// the tiers that are not configured.
func NewTieredStore(local *LocalStore, secondary, primary VectorStore) (*TieredStore, error) {
	if local == nil {
		return nil, fmt.Errorf("local store is required")
	}
	return &TieredStore{
		local:     local,
		secondary: secondary,
		primary:   primary,
		down:      make(map[string]bool),
	}, nil
}

// Add writes to the local tier first and then mirrors to the best remote
// tier available. A local failure is fatal; a remote failure is logged,
// flips the store into fallback mode and is otherwise ignored.
func (t *TieredStore) Add(ctx context.Context, content string, metadata map[string]any, vector []float64) (string, error) {
	id, err := t.local.Add(ctx, content, metadata, vector)
	if err != nil {
		return "", fmt.Errorf("local insert failed: %w", err)
	}

	remote, name := t.bestRemote()
	if remote == nil {
		return id, nil
	}
	if _, err := remote.Add(ctx, content, metadata, vector); err != nil {
		t.enterFallback(name)
		logger.Warn("remote insert failed, document kept in local tier",
			"tier", name, "document_id", id, "error", err.Error())
	}
	return id, nil
}

// Search walks the tiers from preferred to local and returns the first
// non-empty answer, skipping tiers latched as down. The local tier is
// terminal: its result is returned even when empty.
func (t *TieredStore) Search(ctx context.Context, query Query) ([]Match, error) {
	for _, tier := range []struct {
		name  string
		store VectorStore
	}{
		{"qdrant", t.primary},
		{"pgvector", t.secondary},
	} {
		if tier.store == nil || t.tierDown(tier.name) {
			continue
		}
		matches, err := tier.store.Search(ctx, query)
		if err != nil {
			t.enterFallback(tier.name)
			logger.Warn("tier search failed, falling through", "tier", tier.name, "error", err.Error())
			continue
		}
		if len(matches) > 0 {
			return matches, nil
		}
	}
	return t.local.Search(ctx, query)
}

// Info aggregates per-tier statistics and reports the fallback latch.
func (t *TieredStore) Info(ctx context.Context) (TieredInfo, error) {
	info := TieredInfo{}

	local, err := t.local.Info(ctx)
	if err != nil {
		return info, fmt.Errorf("local info failed: %w", err)
	}
	info.Tiers = append(info.Tiers, local)

	for _, tier := range []VectorStore{t.secondary, t.primary} {
		if tier == nil {
			continue
		}
		ti, err := tier.Info(ctx)
		if err != nil {
			// A dead tier should not hide the rest of the report.
			continue
		}
		info.Tiers = append(info.Tiers, ti)
	}

	t.mu.Lock()
	info.FallbackMode = t.fallbackMode
	info.FallbackFrom = t.fallbackFrom
	t.mu.Unlock()
	return info, nil
}

// TieredInfo is the aggregate view across tiers.
type TieredInfo struct {
	Tiers        []Info `json:"tiers"`
	FallbackMode bool   `json:"fallback_mode"`
	FallbackFrom string `json:"fallback_from,omitempty"`
}

// InFallbackMode reports whether any remote tier has failed since the last
// Reset. The latch stays set until Reset so operators see that degradation
// happened, and latched tiers are not retried.
func (t *TieredStore) InFallbackMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fallbackMode
}

// Reset clears the fallback latch and re-enables all tiers, for use after a
// remote tier recovers.
func (t *TieredStore) Reset() {
	t.mu.Lock()
	t.fallbackMode = false
	t.fallbackFrom = ""
	t.down = make(map[string]bool)
	t.mu.Unlock()
}

func (t *TieredStore) enterFallback(tier string) {
	t.mu.Lock()
	if !t.fallbackMode {
		t.fallbackMode = true
		t.fallbackFrom = tier
	}
	t.down[tier] = true
	t.mu.Unlock()
}

func (t *TieredStore) tierDown(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.down[name]
}

// bestRemote picks the highest configured remote tier that is not latched as
// down for mirroring inserts.
func (t *TieredStore) bestRemote() (VectorStore, string) {
	if t.primary != nil && !t.tierDown("qdrant") {
		return t.primary, "qdrant"
	}
	if t.secondary != nil && !t.tierDown("pgvector") {
		return t.secondary, "pgvector"
	}
	return nil, ""
}
