// Package runner executes the aggregation pipeline, one invocation at a
// time.
package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/digest"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/merge"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/metrics"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/parser"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/score"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/state"
)

// Runner wires the fetch, merge, score, dedup and digest stages. One
// RunOnce call processes every source and flushes state exactly once.
type Runner struct {
	sources   []signal.Source
	fetcher   signal.Fetcher
	parsers   *parser.Registry
	scorer    *score.Scorer
	presence  signal.PresenceSource
	store     *state.Store
	scheduler *digest.Scheduler
	clock     signal.Clock
	logger    *zap.Logger
}

// New constructs a Runner.
func New(
	sources []signal.Source,
	fetcher signal.Fetcher,
	parsers *parser.Registry,
	scorer *score.Scorer,
	presence signal.PresenceSource,
	store *state.Store,
	scheduler *digest.Scheduler,
	clock signal.Clock,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		sources:   sources,
		fetcher:   fetcher,
		parsers:   parsers,
		scorer:    scorer,
		presence:  presence,
		store:     store,
		scheduler: scheduler,
		clock:     clock,
		logger:    logger,
	}
}

// RunOnce executes a single invocation: fetch and parse every source,
// merge, score, gate through the ledger, queue, flush the digest if due,
// and persist state atomically. Per-source failures never abort the run.
func (r *Runner) RunOnce(ctx context.Context) error {
	metrics.ObserveRun()
	log := r.logger.With(zap.String("run_id", uuid.NewString()[:8]))
	doc := r.store.Load(r.clock.Now())

	batches := r.collect(ctx, log)
	records := merge.Merge(batches)
	log.Info("merged project records",
		zap.Int("sources", len(batches)), zap.Int("projects", len(records)))

	presence := r.presenceNames(ctx, log)

	// Deterministic iteration order keeps runs reproducible.
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	queued := 0
	for _, key := range keys {
		sig, ok := r.scorer.Evaluate(records[key], presence)
		if !ok {
			metrics.ObserveSuppressed("not_qualified")
			continue
		}
		bucket := signal.BucketKey(sig.Name, sig.Score)
		if doc.HasBucket(state.CategoryVCSignals, bucket) {
			metrics.ObserveSuppressed("already_alerted")
			continue
		}
		doc.RecordBucket(state.CategoryVCSignals, bucket, r.clock.Now())
		digest.Enqueue(doc, sig, r.clock.Now())
		metrics.ObserveQueued()
		queued++
		log.Info("queued signal",
			zap.String("name", sig.Name),
			zap.Int("score", sig.Score),
			zap.Strings("sources", sig.Tags))
	}
	log.Info("scoring pass complete",
		zap.Int("queued", queued), zap.Int("pending", len(doc.PendingSignals)),
		zap.String("digest_state", r.scheduler.State(doc)))

	if r.scheduler.State(doc) == digest.StateDue {
		if r.scheduler.FlushIfDue(ctx, doc) {
			metrics.ObserveDigest("sent")
		} else {
			metrics.ObserveDigest("failed")
		}
	}

	if err := r.store.Save(doc); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// collect fetches and parses every source in registry order. A failing
// source is logged and contributes zero candidates.
func (r *Runner) collect(ctx context.Context, log *zap.Logger) []merge.Batch {
	var batches []merge.Batch
	for _, src := range r.sources {
		p, err := r.parsers.Resolve(src.Parser)
		if err != nil {
			log.Warn("source has no parser; skipping",
				zap.String("source", src.Key), zap.Error(err))
			continue
		}

		content, err := r.fetcher.Fetch(ctx, src)
		if err != nil {
			metrics.ObserveFetch(src.Key, "error")
			log.Warn("fetch failed", zap.String("source", src.Key), zap.Error(err))
			batches = append(batches, merge.Batch{Source: src})
			continue
		}
		metrics.ObserveFetch(src.Key, "ok")

		candidates, err := p.Parse(src.URL, content)
		if err != nil {
			log.Warn("parse failed", zap.String("source", src.Key), zap.Error(err))
			batches = append(batches, merge.Batch{Source: src})
			continue
		}
		metrics.ObserveCandidates(src.Key, len(candidates))
		log.Info("fetched source",
			zap.String("source", src.Key), zap.Int("candidates", len(candidates)))
		batches = append(batches, merge.Batch{Source: src, Candidates: candidates})
	}
	return batches
}

// presenceNames queries the auxiliary catalogue. Absence or failure of
// the collaborator yields an empty set, never an error.
func (r *Runner) presenceNames(ctx context.Context, log *zap.Logger) map[string]struct{} {
	if r.presence == nil {
		return map[string]struct{}{}
	}
	names, err := r.presence.Names(ctx)
	if err != nil {
		log.Warn("presence catalogue unavailable", zap.Error(err))
		return map[string]struct{}{}
	}
	log.Info("presence catalogue loaded", zap.Int("names", len(names)))
	return names
}

// Loop runs the pipeline until the context is canceled, sleeping the
// poll interval between invocations.
func (r *Runner) Loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.RunOnce(ctx); err != nil {
			r.logger.Error("run failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
