package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "state.json")
	}
	store, err := NewStore(cfg, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, Config{})

	doc := NewDocument()
	doc.RecordBucket(CategoryVCSignals, "zeta:19", now)
	doc.PendingSignals = append(doc.PendingSignals, signal.PendingSignal{
		Name: "Zeta", URL: "https://a.example/zeta",
		Tags: []string{"Fund A", "Fund B"}, Score: 19,
		QueuedAt: now.Format(time.RFC3339),
	})
	doc.LastDigestSent = now.Format(time.RFC3339)
	require.NoError(t, store.Save(doc))

	loaded := store.Load(now)
	require.True(t, loaded.HasBucket(CategoryVCSignals, "zeta:19"))
	require.Equal(t, doc.PendingSignals, loaded.PendingSignals)
	require.Equal(t, doc.LastDigestSent, loaded.LastDigestSent)
}

func TestLoadMissingFileStartsFresh(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, Config{})
	doc := store.Load(time.Now())
	require.NotNil(t, doc)
	require.Empty(t, doc.PendingSignals)
	require.Empty(t, doc.LastDigestSent)
}

func TestLoadCorruptFileStartsFresh(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := newTestStore(t, Config{Path: path})
	doc := store.Load(time.Now())
	require.NotNil(t, doc)
	require.False(t, doc.HasBucket(CategoryVCSignals, "anything:1"))
}

func TestLoadLegacyStringLedger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	legacy := `{"seen_items": {"vc_signals": ["zeta:19", "acme:11"]}, "pending_signals": []}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	store := newTestStore(t, Config{Path: path, PruneAfter: 24 * time.Hour})
	doc := store.Load(time.Now())
	// Legacy entries load with zero time and survive pruning.
	require.True(t, doc.HasBucket(CategoryVCSignals, "zeta:19"))
	require.True(t, doc.HasBucket(CategoryVCSignals, "acme:11"))
}

func TestPruneDropsExpiredEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "state.json")
	store := newTestStore(t, Config{Path: path, PruneAfter: 48 * time.Hour})

	doc := NewDocument()
	doc.RecordBucket(CategoryVCSignals, "old:10", now.Add(-72*time.Hour))
	doc.RecordBucket(CategoryVCSignals, "fresh:10", now.Add(-time.Hour))
	require.NoError(t, store.Save(doc))

	loaded := store.Load(now)
	require.False(t, loaded.HasBucket(CategoryVCSignals, "old:10"))
	require.True(t, loaded.HasBucket(CategoryVCSignals, "fresh:10"))
}

func TestInterruptedWriteLeavesCanonicalIntact(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	store := newTestStore(t, Config{Path: path})

	doc := NewDocument()
	doc.RecordBucket(CategoryVCSignals, "zeta:19", time.Now())
	require.NoError(t, store.Save(doc))

	// Simulate a crash after the temp write but before the rename.
	require.NoError(t, os.WriteFile(path+".tmp", []byte("truncated garba"), 0o600))

	loaded := store.Load(time.Now())
	require.True(t, loaded.HasBucket(CategoryVCSignals, "zeta:19"))
}

func TestLedgerIsMonotonic(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	now := time.Now()
	doc.RecordBucket(CategoryVCSignals, "zeta:19", now)
	require.True(t, doc.HasBucket(CategoryVCSignals, "zeta:19"))
	// A changed score is a new key and bypasses the old gate.
	require.False(t, doc.HasBucket(CategoryVCSignals, "zeta:21"))
}

func TestDocumentJSONFieldNames(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	doc.RecordBucket(CategoryVCSignals, "zeta:19", time.Now())
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "seen_items")
	require.Contains(t, raw, "pending_signals")
	require.NotContains(t, raw, "last_digest_sent")
}
