// Package parser implements the per-source page parsers and their registry.
package parser

import (
	"fmt"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// Registry maps parser keys to implementations, resolved at startup.
type Registry struct {
	parsers map[string]signal.Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]signal.Parser)}
}

// Default returns a registry with all built-in parsers registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register("portfolio", NewPortfolio())
	return r
}

// Register binds a parser implementation to a key.
func (r *Registry) Register(key string, p signal.Parser) {
	r.parsers[key] = p
}

// Resolve returns the parser for a source's parser key.
func (r *Registry) Resolve(key string) (signal.Parser, error) {
	p, ok := r.parsers[key]
	if !ok {
		return nil, fmt.Errorf("unknown parser %q", key)
	}
	return p, nil
}
