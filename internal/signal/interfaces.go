package signal

import (
	"context"
	"time"
)

// Fetcher retrieves the raw content of a source's page.
type Fetcher interface {
	Fetch(ctx context.Context, source Source) ([]byte, error)
}

// Parser extracts candidate (name, url) pairs from raw page content.
// Implementations are heuristic and may return noise; callers must not
// assume clean input.
type Parser interface {
	Parse(baseURL string, content []byte) ([]Candidate, error)
}

// Transport delivers a rendered digest. A nil error confirms delivery;
// anything else leaves the pending queue untouched for retry.
type Transport interface {
	Name() string
	Deliver(ctx context.Context, subject, htmlBody, plainFallback string) error
}

// PresenceSource exposes an auxiliary catalogue of known project names,
// used only for the presence score bonus.
type PresenceSource interface {
	Names(ctx context.Context) (map[string]struct{}, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
