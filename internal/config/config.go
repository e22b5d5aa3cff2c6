// Package config loads and validates bot configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
// It is built once at startup and passed explicitly to the components
// that need it; no component reads the environment on its own.
type Config struct {
	PollIntervalSeconds int             `mapstructure:"poll_interval_seconds"`
	Once                bool            `mapstructure:"once"`
	Timezone            string          `mapstructure:"timezone"`
	Digest              DigestConfig    `mapstructure:"digest"`
	Score               ScoreConfig     `mapstructure:"score"`
	HTTP                HTTPConfig      `mapstructure:"http"`
	State               StateConfig     `mapstructure:"state"`
	Presence            PresenceConfig  `mapstructure:"presence"`
	Transport           TransportConfig `mapstructure:"transport"`
	SMTP                SMTPConfig      `mapstructure:"smtp"`
	Telegram            TelegramConfig  `mapstructure:"telegram"`
	Metrics             MetricsConfig   `mapstructure:"metrics"`
	Sources             SourcesConfig   `mapstructure:"sources"`
	Logging             LoggingConfig   `mapstructure:"logging"`
}

// DigestConfig controls windowed digest emission.
type DigestConfig struct {
	WindowHours int    `mapstructure:"window_hours"`
	Subject     string `mapstructure:"subject"`
}

// ScoreConfig governs the corroboration filter and admission threshold.
type ScoreConfig struct {
	Threshold        int `mapstructure:"threshold"`
	MinCorroboration int `mapstructure:"min_corroboration"`
}

// HTTPConfig configures fetch timeout and retry behavior.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MaxRetries     int `mapstructure:"max_retries"`
	BackoffBaseMs  int `mapstructure:"backoff_base_ms"`
}

// StateConfig sets the durable state file location and retention.
type StateConfig struct {
	Path string `mapstructure:"path"`
	// PruneAfterDays drops ledger entries older than the cutoff at load
	// time. Zero keeps entries forever.
	PruneAfterDays int `mapstructure:"prune_after_days"`
}

// PresenceConfig controls the auxiliary catalogue presence check.
type PresenceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// TransportConfig selects delivery channels in preference order.
type TransportConfig struct {
	// Preference is a comma-separated list, e.g. "email,telegram".
	Preference string `mapstructure:"preference"`
}

// SMTPConfig holds email delivery credentials.
type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// TelegramConfig holds Telegram bot delivery credentials.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// MetricsConfig controls the Prometheus listener in loop mode.
type MetricsConfig struct {
	// ListenAddr such as ":9091". Empty disables the listener.
	ListenAddr string `mapstructure:"listen_addr"`
}

// SourcesConfig points at an optional YAML source registry file.
type SourcesConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VCSIGNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("poll_interval_seconds", 900)
	v.SetDefault("once", false)
	v.SetDefault("timezone", "Europe/Paris")
	v.SetDefault("digest.window_hours", 4)
	v.SetDefault("digest.subject", "VC Signals — Recap")
	v.SetDefault("score.threshold", 8)
	v.SetDefault("score.min_corroboration", 2)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_base_ms", 1500)
	v.SetDefault("state.path", "vc_signal_state.json")
	v.SetDefault("state.prune_after_days", 0)
	v.SetDefault("presence.enabled", true)
	v.SetDefault("presence.url", "https://api.coingecko.com/api/v3/coins/list?include_platform=false")
	v.SetDefault("transport.preference", "email")
	v.SetDefault("logging.development", true)
	v.SetDefault("metrics.listen_addr", "")
	v.SetDefault("sources.file", "")

	// Credential keys default empty so AutomaticEnv can populate them
	// through Unmarshal.
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", "")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be > 0")
	}
	if c.Digest.WindowHours <= 0 {
		return fmt.Errorf("digest.window_hours must be > 0")
	}
	if c.Score.MinCorroboration < 1 {
		return fmt.Errorf("score.min_corroboration must be >= 1")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries < 1 {
		return fmt.Errorf("http.max_retries must be >= 1")
	}
	if c.State.Path == "" {
		return fmt.Errorf("state.path must be set")
	}
	if c.Presence.Enabled && c.Presence.URL == "" {
		return fmt.Errorf("presence.url must be set when presence is enabled")
	}
	return nil
}

// PollInterval converts the poll setting into a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Window converts the digest window setting into a duration.
func (c Config) Window() time.Duration {
	return time.Duration(c.Digest.WindowHours) * time.Hour
}

// HTTPTimeout converts the fetch timeout setting into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffBase converts the retry backoff base setting into a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.HTTP.BackoffBaseMs) * time.Millisecond
}

// PruneAfter converts the ledger retention setting into a duration.
// Zero means keep forever.
func (c Config) PruneAfter() time.Duration {
	return time.Duration(c.State.PruneAfterDays) * 24 * time.Hour
}

// TransportPreference splits the preference list into channel names.
func (c Config) TransportPreference() []string {
	var out []string
	for _, part := range strings.Split(c.Transport.Preference, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
