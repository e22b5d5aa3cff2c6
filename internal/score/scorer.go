// Package score applies the corroboration filter and admission threshold.
package score

import (
	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// Weights are the additive score components.
type Weights struct {
	VCHit    int
	MultiVC  int
	HasLink  int
	Presence int
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{VCHit: 10, MultiVC: 8, HasLink: 1, Presence: 2}
}

// Scorer filters project records and computes their confidence score.
type Scorer struct {
	weights          Weights
	minCorroboration int
	threshold        int
}

// New builds a Scorer with the default weights.
func New(minCorroboration, threshold int) *Scorer {
	return &Scorer{
		weights:          DefaultWeights(),
		minCorroboration: minCorroboration,
		threshold:        threshold,
	}
}

// Evaluate turns a project record into a Signal when it qualifies.
// A record qualifies only with corroboration from at least
// minCorroboration distinct sources and a score at or above the
// threshold. The score is deterministic given (tags, url presence,
// presence-set membership).
func (s *Scorer) Evaluate(rec signal.ProjectRecord, presence map[string]struct{}) (signal.Signal, bool) {
	tags := rec.Tags()
	if len(tags) < s.minCorroboration {
		return signal.Signal{}, false
	}

	url := rec.FirstURL()
	score := 0
	if len(tags) >= 1 {
		score += s.weights.VCHit
		if len(tags) >= 2 {
			score += s.weights.MultiVC
		}
	}
	if url != "" {
		score += s.weights.HasLink
	}
	if _, ok := presence[signal.Key(rec.Display)]; ok {
		score += s.weights.Presence
	}

	if score < s.threshold {
		return signal.Signal{}, false
	}
	return signal.Signal{
		Name:  rec.Display,
		URL:   url,
		Tags:  tags,
		Score: score,
	}, true
}
