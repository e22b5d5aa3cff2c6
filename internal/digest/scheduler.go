package digest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/state"
)

// State labels for the scheduler's position in the digest cycle.
const (
	StateIdle         = "idle"
	StateAccumulating = "accumulating"
	StateDue          = "due"
)

// Config controls the digest scheduler.
type Config struct {
	Window   time.Duration
	Subject  string
	Timezone string
}

// Scheduler decides when a windowed digest is due and triggers the
// flush. Only a confirmed delivery advances the window marker and clears
// the queue, which gives at-least-once semantics: a failure before
// confirmation leaves everything queued for the next run.
type Scheduler struct {
	cfg       Config
	transport signal.Transport
	clock     signal.Clock
	logger    *zap.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(cfg Config, transport signal.Transport, clock signal.Clock, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cfg: cfg, transport: transport, clock: clock, logger: logger}
}

// State reports where the scheduler stands for the given document.
func (s *Scheduler) State(doc *state.Document) string {
	if len(doc.PendingSignals) == 0 {
		return StateIdle
	}
	if s.due(doc) {
		return StateDue
	}
	return StateAccumulating
}

// due reports whether a flush should happen now: pending items exist and
// either no digest was ever sent or the window has elapsed. An
// unparseable marker counts as never sent.
func (s *Scheduler) due(doc *state.Document) bool {
	if len(doc.PendingSignals) == 0 {
		return false
	}
	if doc.LastDigestSent == "" {
		return true
	}
	last, err := time.Parse(time.RFC3339, doc.LastDigestSent)
	if err != nil {
		s.logger.Warn("unparseable last-digest marker; treating digest as due",
			zap.String("last_digest_sent", doc.LastDigestSent))
		return true
	}
	return s.clock.Now().Sub(last) >= s.cfg.Window
}

// FlushIfDue renders and delivers the digest when the window has
// elapsed, reporting whether a digest was delivered. On success the
// queue clears and the window marker advances; on failure the document
// is left untouched.
func (s *Scheduler) FlushIfDue(ctx context.Context, doc *state.Document) bool {
	if !s.due(doc) {
		return false
	}

	now := s.clock.Now()
	htmlBody := renderHTML(doc.PendingSignals, now, s.cfg)
	plain := renderPlain(doc.PendingSignals)

	if err := s.transport.Deliver(ctx, s.cfg.Subject, htmlBody, plain); err != nil {
		s.logger.Warn("digest delivery failed; keeping items queued",
			zap.String("transport", s.transport.Name()),
			zap.Int("pending", len(doc.PendingSignals)),
			zap.Error(err))
		return false
	}

	s.logger.Info("digest sent",
		zap.String("transport", s.transport.Name()),
		zap.Int("items", len(doc.PendingSignals)))
	doc.LastDigestSent = now.Format(time.RFC3339)
	doc.PendingSignals = nil
	return true
}
