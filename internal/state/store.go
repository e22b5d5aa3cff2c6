package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Config captures the parameters for the state store.
type Config struct {
	// Path is the canonical state file location.
	Path string
	// PruneAfter drops ledger entries older than the cutoff at load
	// time. Zero keeps entries forever.
	PruneAfter time.Duration
}

// Store reads and writes the durable state document. Writes are atomic:
// a temporary file is written in full, then renamed over the canonical
// path, so a crash mid-write always leaves the previous valid version.
//
// The file is not safe for concurrent writers; single-writer discipline
// is assumed (one bot instance at a time).
type Store struct {
	cfg    Config
	logger *zap.Logger
}

// NewStore creates a state store, ensuring the parent directory exists.
func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("state path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	return &Store{cfg: cfg, logger: logger}, nil
}

// Load reads the state document. A missing, unreadable or corrupt file
// is not fatal: the bot starts over with an empty ledger and queue, at
// the cost of possibly re-alerting.
func (s *Store) Load(now time.Time) *Document {
	data, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read state file; starting fresh",
				zap.String("path", s.cfg.Path), zap.Error(err))
		}
		return NewDocument()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("state file is corrupt; starting fresh",
			zap.String("path", s.cfg.Path), zap.Error(err))
		return NewDocument()
	}
	if doc.SeenItems == nil {
		doc.SeenItems = make(map[string][]LedgerEntry)
	}

	if s.cfg.PruneAfter > 0 {
		if dropped := doc.Prune(now.Add(-s.cfg.PruneAfter)); dropped > 0 {
			s.logger.Info("pruned expired ledger entries", zap.Int("dropped", dropped))
		}
	}
	return &doc
}

// Save writes the state document atomically.
func (s *Store) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.cfg.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := os.Rename(tmp, s.cfg.Path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
