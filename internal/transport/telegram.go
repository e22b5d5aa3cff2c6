package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TelegramConfig holds Telegram bot delivery parameters.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	// APIBase overrides the Telegram API endpoint in tests.
	APIBase string
}

// Telegram delivers digests through the Telegram bot API. The API only
// accepts a limited HTML subset, so the plaintext fallback is sent.
type Telegram struct {
	cfg    TelegramConfig
	client *http.Client
}

// NewTelegram creates the Telegram transport.
func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.telegram.org"
	}
	return &Telegram{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// Name identifies the transport in logs.
func (t *Telegram) Name() string { return "telegram" }

type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Deliver posts the digest as a bot message.
func (t *Telegram) Deliver(ctx context.Context, subject, _ string, plainFallback string) error {
	payload, err := json.Marshal(telegramMessage{
		ChatID:                t.cfg.ChatID,
		Text:                  subject + "\n\n" + plainFallback,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.APIBase, t.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram api returned status %d", resp.StatusCode)
	}
	return nil
}
