package transport

import (
	"context"
	"fmt"
)

// Noop is the degraded delivery mode used when no transport credentials
// are present. It never confirms delivery, so the scheduler keeps the
// pending queue intact instead of silently dropping digests.
type Noop struct{}

// NewNoop creates the no-op transport.
func NewNoop() *Noop {
	return &Noop{}
}

// Name identifies the transport in logs.
func (*Noop) Name() string { return "noop" }

// Deliver always reports failure.
func (*Noop) Deliver(context.Context, string, string, string) error {
	return fmt.Errorf("no delivery transport configured")
}
