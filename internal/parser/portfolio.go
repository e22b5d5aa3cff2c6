package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// Portfolio is a lenient parser for portfolio-style grids. It collects
// anchor text and hrefs and filters the obvious navigational noise.
// Portfolio pages change HTML often, so it avoids site-specific selectors.
type Portfolio struct{}

// NewPortfolio creates the generic portfolio parser.
func NewPortfolio() *Portfolio {
	return &Portfolio{}
}

const (
	minNameLen = 2
	maxNameLen = 60
)

// noiseText is common non-project link text to skip.
var noiseText = map[string]struct{}{
	"learn more": {},
	"portfolio":  {},
	"read more":  {},
	"apply":      {},
	"about":      {},
	"careers":    {},
	"contact":    {},
	"news":       {},
}

// projectPathRE marks same-domain links that look like project subpages.
var projectPathRE = regexp.MustCompile(`(?i)/(portfolio|companies|projects|investment|company)/`)

// Parse extracts candidate (name, url) pairs from a portfolio page.
// Output is deduplicated by case-insensitive name; a repeated name keeps
// its first slot but the last-seen url wins.
func (p *Portfolio) Parse(baseURL string, content []byte) ([]signal.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var out []signal.Candidate
	index := make(map[string]int)

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		name := signal.NormalizeName(sel.Text())
		if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
			return
		}
		if _, noisy := noiseText[strings.ToLower(name)]; noisy {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref)
		if full.Scheme != "http" && full.Scheme != "https" {
			return
		}
		// Own-domain links are kept only when they look like a project
		// subpage; anything else is navigation.
		if full.Host == base.Host && !projectPathRE.MatchString(full.Path) {
			return
		}

		key := strings.ToLower(name)
		if i, dup := index[key]; dup {
			out[i].URL = full.String()
			return
		}
		index[key] = len(out)
		out = append(out, signal.Candidate{Name: name, URL: full.String()})
	})

	return out, nil
}
