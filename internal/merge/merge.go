// Package merge folds per-source candidates into unified project records.
package merge

import (
	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// Batch pairs a source with the candidates its parser produced this run.
type Batch struct {
	Source     signal.Source
	Candidates []signal.Candidate
}

// Merge builds one ProjectRecord per case-insensitive normalized name
// across all batches. The merge is run-scoped: it never consults history,
// so corroboration only counts sources seen in the same run.
//
// Batches are processed in registry order; a later batch's casing
// overwrites the display name. Re-merging the same source is idempotent:
// the source map holds at most one url per source name.
func Merge(batches []Batch) map[string]signal.ProjectRecord {
	records := make(map[string]signal.ProjectRecord)

	for _, batch := range batches {
		for _, cand := range batch.Candidates {
			display := signal.NormalizeName(cand.Name)
			if display == "" {
				continue
			}
			key := signal.Key(cand.Name)

			rec, ok := records[key]
			if !ok {
				rec = signal.ProjectRecord{Sources: make(map[string]string)}
			}
			rec.Display = display
			if _, seen := rec.Sources[batch.Source.Name]; !seen {
				rec.Order = append(rec.Order, batch.Source.Name)
			}
			rec.Sources[batch.Source.Name] = cand.URL
			records[key] = rec
		}
	}

	return records
}
