// Package fetcher retrieves raw source pages using gocolly, with
// per-source failure isolation and bounded retry.
package fetcher

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// userAgents is a small fixed pool rotated per attempt. Best effort
// against trivial blocking, not a correctness requirement.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

// Config controls fetch behavior.
type Config struct {
	Timeout     time.Duration
	MaxAttempts int
	// BackoffBase is multiplied by the attempt index for the linear
	// backoff applied after a rate-limit or access-denial status.
	BackoffBase time.Duration
	// PerHostInterval spaces requests against the same host. Zero
	// disables politeness delays.
	PerHostInterval time.Duration
}

// Fetcher implements signal.Fetcher using the Colly collector.
type Fetcher struct {
	cfg       Config
	transport http.RoundTripper
	base      *colly.Collector
	logger    *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	// The same portfolio URLs are fetched on every poll and on retry.
	c.AllowURLRevisit = true
	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &Fetcher{
		cfg:       cfg,
		transport: transport,
		base:      c,
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves the raw content of a source's page. Rate-limit and
// access-denial responses (429/403) are retried with a linearly growing
// delay; every other failure aborts immediately.
func (f *Fetcher) Fetch(ctx context.Context, source signal.Source) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		if err := f.waitPolitely(ctx, source.URL); err != nil {
			return nil, err
		}

		body, status, err := f.visit(ctx, source.URL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt < f.cfg.MaxAttempts && retryableStatus(status) {
			delay := time.Duration(attempt) * f.cfg.BackoffBase
			f.logger.Debug("backing off after blocked fetch",
				zap.String("source", source.Key),
				zap.Int("status", status),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
			case <-time.After(delay):
			}
			continue
		}
		break
	}
	return nil, fmt.Errorf("fetch %s: %w", source.Key, lastErr)
}

func retryableStatus(status int) bool {
	return status == http.StatusForbidden || status == http.StatusTooManyRequests
}

// visit executes a single HTTP GET using a cloned collector and returns
// the body, the response status (when one was received) and any error.
func (f *Fetcher) visit(ctx context.Context, url string) ([]byte, int, error) {
	collector := f.base.Clone()
	collector.UserAgent = userAgents[rand.IntN(len(userAgents))]
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.WithTransport(f.transport)

	var (
		body     []byte
		status   int
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Cache-Control", "no-cache")
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, status, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, status, fmt.Errorf("visit failed: %w", err)
		}
		if fetchErr != nil {
			return nil, status, fmt.Errorf("response failed: %w", fetchErr)
		}
		return body, status, nil
	}
}

func (f *Fetcher) waitPolitely(ctx context.Context, rawURL string) error {
	if f.cfg.PerHostInterval <= 0 {
		return nil
	}
	host := hostOf(rawURL)

	f.mu.Lock()
	limiter, ok := f.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(f.cfg.PerHostInterval), 1)
		f.limiters[host] = limiter
	}
	f.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("politeness wait: %w", err)
	}
	return nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
