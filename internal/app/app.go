// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/clock/system"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/config"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/digest"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/fetcher"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/logging"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/metrics"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/parser"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/presence"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/registry"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/runner"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/score"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/state"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/transport"
)

// App holds the shared, long-lived services for the bot. It is built
// once at startup from the immutable configuration and handed to the
// command layer.
type App struct {
	Cfg    config.Config
	Logger *zap.Logger
	Runner *runner.Runner
}

// New wires every pipeline stage from the configuration. Startup fails
// fast on invalid source registries; missing transport credentials only
// degrade delivery, per the error taxonomy.
func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	metrics.Init()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone; falling back to local time",
			zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}
	clk := system.New(loc)

	sources, err := registry.Load(cfg.Sources.File)
	if err != nil {
		return nil, fmt.Errorf("load source registry: %w", err)
	}
	parsers := parser.Default()
	for _, src := range sources {
		if _, err := parsers.Resolve(src.Parser); err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Key, err)
		}
	}

	fet := fetcher.New(fetcher.Config{
		Timeout:         cfg.HTTPTimeout(),
		MaxAttempts:     cfg.HTTP.MaxRetries,
		BackoffBase:     cfg.BackoffBase(),
		PerHostInterval: time.Second,
	}, logger)

	var pres signal.PresenceSource = presence.Disabled{}
	if cfg.Presence.Enabled {
		pres = presence.New(presence.Config{URL: cfg.Presence.URL, Timeout: cfg.HTTPTimeout()})
	}

	store, err := state.NewStore(state.Config{
		Path:       cfg.State.Path,
		PruneAfter: cfg.PruneAfter(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init state store: %w", err)
	}

	chain := transport.NewFromConfig(cfg, logger)
	scheduler := digest.NewScheduler(digest.Config{
		Window:   cfg.Window(),
		Subject:  cfg.Digest.Subject,
		Timezone: cfg.Timezone,
	}, chain, clk, logger)

	scorer := score.New(cfg.Score.MinCorroboration, cfg.Score.Threshold)

	run := runner.New(sources, fet, parsers, scorer, pres, store, scheduler, clk, logger)

	return &App{Cfg: cfg, Logger: logger, Runner: run}, nil
}

// Close flushes buffered log output.
func (a *App) Close() {
	// Sync can fail on stderr; best effort only.
	_ = a.Logger.Sync()
}
