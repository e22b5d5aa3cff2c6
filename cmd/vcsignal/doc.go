// Package main hosts the vcsignal bot entrypoint.
//
// Architecture overview:
//   - Pipeline: internal/runner drives each invocation. Every registered source is fetched through the Colly-based
//     fetcher (rotating user agents, per-host rate limiting, bounded retries on 403/429) and parsed into project
//     candidates by the parser named in the source registry.
//   - Aggregation: internal/merge unifies candidates across sources within one run, keyed by the case-insensitive
//     normalized project name. internal/score applies the corroboration rule (minimum number of distinct sources)
//     and the additive weights, producing qualified signals.
//   - Dedup & digest: internal/state keeps a persistent ledger keyed name:score so a project only re-alerts when its
//     score changes. Qualified signals accumulate in a pending queue; internal/digest flushes them as a windowed
//     recap once the configured interval has elapsed. Only a confirmed delivery clears the queue and advances the
//     window marker, so failed sends are retried on the next run.
//   - Delivery: internal/transport chains email (SMTP with STARTTLS) and Telegram in the configured preference
//     order, falling through on failure.
//   - Configuration & plumbing: Viper populates config from a YAML file and VCSIGNAL_* env vars; zap provides
//     structured logging; Prometheus metrics are exported on an optional /metrics listener. State is a single JSON
//     document written atomically (temp file plus rename).
//
// Operational notes:
//   - Concurrency model: one pipeline invocation at a time; the poll loop sleeps the configured interval between
//     runs. Shutdown is coordinated via context cancellation from SIGINT/SIGTERM.
//   - The state file assumes a single bot instance; there is no cross-process locking.
//
// Run locally: go run ./cmd/vcsignal run -config config.yaml (or rely solely on env overrides), or add -once for a
// single invocation.
package main
