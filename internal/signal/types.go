// Package signal defines core types shared across the aggregation pipeline.
package signal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Source describes one portfolio page to poll. Sources are defined at
// startup and never mutated afterwards.
type Source struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Parser string `yaml:"parser"`
}

// Candidate is a raw (name, url) pair extracted from one source's page.
// Candidates live for a single run and are never persisted.
type Candidate struct {
	Name string
	URL  string
}

// ProjectRecord unifies candidates for a single project across sources
// within one run. Keyed by the case-insensitive normalized name.
type ProjectRecord struct {
	// Display holds the latest-observed casing of the project name.
	Display string
	// Sources maps corroborating source name to the url that source
	// supplied. At most one url per source.
	Sources map[string]string
	// Order lists source names in first-merge order, so url selection
	// stays deterministic across runs.
	Order []string
}

// FirstURL returns the first non-empty url in merge order, or "".
func (r ProjectRecord) FirstURL() string {
	for _, name := range r.Order {
		if u := r.Sources[name]; u != "" {
			return u
		}
	}
	return ""
}

// Tags returns the corroborating source names, sorted and deduplicated.
func (r ProjectRecord) Tags() []string {
	tags := make([]string, 0, len(r.Sources))
	for name := range r.Sources {
		tags = append(tags, name)
	}
	sort.Strings(tags)
	return tags
}

// Signal is a project record that passed the corroboration filter and the
// admission threshold.
type Signal struct {
	Name  string
	URL   string
	Tags  []string
	Score int
}

// PendingSignal is a signal queued for the next digest. Field names match
// the persisted state document.
type PendingSignal struct {
	Name     string   `json:"name"`
	URL      string   `json:"url,omitempty"`
	Tags     []string `json:"tags"`
	Score    int      `json:"score"`
	QueuedAt string   `json:"ts"`
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeName collapses internal whitespace and trims the ends.
func NormalizeName(name string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(name, " "))
}

// Key returns the case-insensitive identity key for a project name.
func Key(name string) string {
	return strings.ToLower(NormalizeName(name))
}

// BucketKey builds the dedup ledger key for a (project, score) pair. A
// changed score yields a new key, so an improved project re-alerts.
func BucketKey(name string, score int) string {
	return fmt.Sprintf("%s:%d", Key(name), score)
}
