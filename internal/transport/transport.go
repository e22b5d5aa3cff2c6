// Package transport implements the digest delivery channels.
package transport

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/config"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// Chain tries each transport in preference order until one confirms
// delivery. The scheduler only sees the chain; it never needs to know
// which concrete medium carried the digest.
type Chain struct {
	transports []signal.Transport
	logger     *zap.Logger
}

// NewChain builds a fallback chain over the given transports.
func NewChain(transports []signal.Transport, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{transports: transports, logger: logger}
}

// Name lists the chain members.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.transports))
	for _, t := range c.transports {
		names = append(names, t.Name())
	}
	return strings.Join(names, ",")
}

// Deliver attempts each transport in order, returning nil on the first
// confirmed delivery.
func (c *Chain) Deliver(ctx context.Context, subject, htmlBody, plainFallback string) error {
	var lastErr error
	for _, t := range c.transports {
		err := t.Deliver(ctx, subject, htmlBody, plainFallback)
		if err == nil {
			return nil
		}
		lastErr = err
		c.logger.Warn("transport failed, trying next",
			zap.String("transport", t.Name()), zap.Error(err))
	}
	if lastErr == nil {
		return fmt.Errorf("no transports configured")
	}
	return lastErr
}

// NewFromConfig assembles the delivery chain from the preference list.
// A preferred channel whose credentials are missing is skipped with a
// warning; when nothing usable remains the chain degrades to a no-op
// transport that never confirms delivery, so the queue keeps
// accumulating instead of losing signals.
func NewFromConfig(cfg config.Config, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}

	var transports []signal.Transport
	for _, name := range cfg.TransportPreference() {
		switch name {
		case "email":
			if cfg.SMTP.Host == "" || cfg.SMTP.From == "" || cfg.SMTP.To == "" {
				logger.Warn("email transport requested but smtp host/from/to are not configured; skipping")
				continue
			}
			transports = append(transports, NewEmail(EmailConfig{
				Host: cfg.SMTP.Host,
				Port: cfg.SMTP.Port,
				User: cfg.SMTP.User,
				Pass: cfg.SMTP.Pass,
				From: cfg.SMTP.From,
				To:   cfg.SMTP.To,
			}))
		case "telegram":
			if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
				logger.Warn("telegram transport requested but bot_token/chat_id are not configured; skipping")
				continue
			}
			transports = append(transports, NewTelegram(TelegramConfig{
				BotToken: cfg.Telegram.BotToken,
				ChatID:   cfg.Telegram.ChatID,
			}))
		default:
			logger.Warn("unknown transport in preference list; skipping", zap.String("transport", name))
		}
	}

	if len(transports) == 0 {
		logger.Warn("no usable delivery transport; digests will stay queued")
		transports = append(transports, NewNoop())
	}
	return NewChain(transports, logger)
}
