// Package presence checks project names against an auxiliary listings
// catalogue for the presence score bonus.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config controls the catalogue client.
type Config struct {
	// URL is a public JSON list endpoint returning objects with a
	// "name" field (CoinGecko's coins list shape).
	URL     string
	Timeout time.Duration
}

// Catalogue implements signal.PresenceSource over an HTTP JSON listing.
type Catalogue struct {
	cfg    Config
	client *http.Client
}

// New creates a catalogue client.
func New(cfg Config) *Catalogue {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Catalogue{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type listing struct {
	Name string `json:"name"`
}

// Names fetches the catalogue and returns the lowercased name set.
func (c *Catalogue) Names(ctx context.Context) (map[string]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalogue request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalogue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalogue returned status %d", resp.StatusCode)
	}

	var listings []listing
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<20)).Decode(&listings); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	names := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		if l.Name != "" {
			names[strings.ToLower(l.Name)] = struct{}{}
		}
	}
	return names, nil
}

// Disabled is the presence source used when the auxiliary check is off.
type Disabled struct{}

// Names returns an empty set.
func (Disabled) Names(context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}
