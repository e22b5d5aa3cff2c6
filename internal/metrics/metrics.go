// Package metrics exposes Prometheus collectors for the signal pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sourceFetchesTotal     *prometheus.CounterVec
	candidatesTotal        *prometheus.CounterVec
	signalsQueuedTotal     prometheus.Counter
	signalsSuppressedTotal *prometheus.CounterVec
	digestsTotal           *prometheus.CounterVec
	runsTotal              prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		sourceFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vcsignal_source_fetches_total",
				Help: "Total source fetch attempts, labeled by source and outcome.",
			},
			[]string{"source", "outcome"},
		)

		candidatesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vcsignal_candidates_total",
				Help: "Total candidate projects parsed, labeled by source.",
			},
			[]string{"source"},
		)

		signalsQueuedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vcsignal_signals_queued_total",
				Help: "Total qualifying signals queued for the digest.",
			},
		)

		signalsSuppressedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vcsignal_signals_suppressed_total",
				Help: "Total signals suppressed, labeled by reason.",
			},
			[]string{"reason"},
		)

		digestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vcsignal_digests_total",
				Help: "Total digest flush attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		runsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vcsignal_runs_total",
				Help: "Total pipeline invocations.",
			},
		)
	})
}

// ObserveFetch records one source fetch attempt.
func ObserveFetch(source, outcome string) {
	if sourceFetchesTotal != nil {
		sourceFetchesTotal.WithLabelValues(source, outcome).Inc()
	}
}

// ObserveCandidates records parsed candidates for a source.
func ObserveCandidates(source string, n int) {
	if candidatesTotal != nil {
		candidatesTotal.WithLabelValues(source).Add(float64(n))
	}
}

// ObserveQueued records one queued signal.
func ObserveQueued() {
	if signalsQueuedTotal != nil {
		signalsQueuedTotal.Inc()
	}
}

// ObserveSuppressed records one suppressed signal.
func ObserveSuppressed(reason string) {
	if signalsSuppressedTotal != nil {
		signalsSuppressedTotal.WithLabelValues(reason).Inc()
	}
}

// ObserveDigest records one digest flush attempt.
func ObserveDigest(outcome string) {
	if digestsTotal != nil {
		digestsTotal.WithLabelValues(outcome).Inc()
	}
}

// ObserveRun records one pipeline invocation.
func ObserveRun() {
	if runsTotal != nil {
		runsTotal.Inc()
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
