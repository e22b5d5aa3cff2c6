// Package digest accumulates qualifying signals and emits the windowed
// digest notification.
package digest

import (
	"sort"
	"time"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/state"
)

// Enqueue adds a signal to the pending digest queue, de-duplicating by
// case-insensitive trimmed name within the current window. A repeated
// project merges in place: tag sets union (sorted), the first non-empty
// url sticks, and the score keeps its maximum. New items are stamped
// with the current local time.
func Enqueue(doc *state.Document, sig signal.Signal, now time.Time) {
	key := signal.Key(sig.Name)

	for i := range doc.PendingSignals {
		item := &doc.PendingSignals[i]
		if signal.Key(item.Name) != key {
			continue
		}
		item.Tags = unionSorted(item.Tags, sig.Tags)
		if item.URL == "" && sig.URL != "" {
			item.URL = sig.URL
		}
		if sig.Score > item.Score {
			item.Score = sig.Score
		}
		return
	}

	doc.PendingSignals = append(doc.PendingSignals, signal.PendingSignal{
		Name:     sig.Name,
		URL:      sig.URL,
		Tags:     unionSorted(nil, sig.Tags),
		Score:    sig.Score,
		QueuedAt: now.Format(time.RFC3339),
	})
}

func unionSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
