// Package state persists the dedup ledger and the pending digest queue.
package state

import (
	"encoding/json"
	"time"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// CategoryVCSignals is the ledger category for portfolio-derived signals.
const CategoryVCSignals = "vc_signals"

// LedgerEntry is one already-alerted bucket key. RecordedAt supports the
// optional retention policy; entries loaded from legacy plain-string
// ledgers carry a zero time and are never pruned.
type LedgerEntry struct {
	Key        string    `json:"key"`
	RecordedAt time.Time `json:"recorded_at,omitzero"`
}

// UnmarshalJSON accepts both the object form and the legacy bare-string
// form of a ledger entry.
func (e *LedgerEntry) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err == nil {
		*e = LedgerEntry{Key: key}
		return nil
	}
	type entry LedgerEntry
	var out entry
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*e = LedgerEntry(out)
	return nil
}

// Document is the persisted state record: dedup ledger, pending digest
// items and the last successful flush marker. It is read once per run,
// mutated in memory and written back atomically at the end.
type Document struct {
	SeenItems      map[string][]LedgerEntry `json:"seen_items"`
	PendingSignals []signal.PendingSignal   `json:"pending_signals"`
	// LastDigestSent is an ISO-8601 local timestamp, empty until the
	// first successful flush.
	LastDigestSent string `json:"last_digest_sent,omitempty"`
}

// NewDocument returns an empty state document.
func NewDocument() *Document {
	return &Document{SeenItems: make(map[string][]LedgerEntry)}
}

// HasBucket reports whether a bucket key was already alerted.
func (d *Document) HasBucket(category, key string) bool {
	for _, e := range d.SeenItems[category] {
		if e.Key == key {
			return true
		}
	}
	return false
}

// RecordBucket appends a bucket key to the ledger. The ledger is
// monotonic: keys are never removed except by the retention policy.
func (d *Document) RecordBucket(category, key string, now time.Time) {
	if d.SeenItems == nil {
		d.SeenItems = make(map[string][]LedgerEntry)
	}
	d.SeenItems[category] = append(d.SeenItems[category], LedgerEntry{Key: key, RecordedAt: now})
}

// Prune drops ledger entries recorded before the cutoff. Entries without
// a recorded time are kept. Returns the number of dropped entries.
func (d *Document) Prune(cutoff time.Time) int {
	dropped := 0
	for category, entries := range d.SeenItems {
		kept := entries[:0]
		for _, e := range entries {
			if !e.RecordedAt.IsZero() && e.RecordedAt.Before(cutoff) {
				dropped++
				continue
			}
			kept = append(kept, e)
		}
		d.SeenItems[category] = kept
	}
	return dropped
}
