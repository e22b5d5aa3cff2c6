package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

const portfolioPage = `
<html><body>
  <nav>
    <a href="/about">About</a>
    <a href="/portfolio">Portfolio</a>
    <a href="#top">Back to top</a>
  </nav>
  <div class="grid">
    <a href="https://zeta.example">Zeta Protocol</a>
    <a href="/portfolio/acme-chain">Acme Chain</a>
    <a href="https://noise.example">x</a>
    <a href="/careers">Careers</a>
    <a href="/blog/post-1">A perfectly ordinary blog post title that goes on and on and keeps going well past sixty characters</a>
    <a href="mailto:hello@fund.example">hello@fund.example</a>
    <a href="https://zeta.example/v2">zeta   protocol</a>
  </div>
</body></html>`

func TestPortfolioParse(t *testing.T) {
	t.Parallel()

	p := NewPortfolio()
	candidates, err := p.Parse("https://fund.example/portfolio/", []byte(portfolioPage))
	require.NoError(t, err)

	require.Equal(t, []signal.Candidate{
		// Duplicate name keeps its first slot but the last-seen url wins.
		{Name: "Zeta Protocol", URL: "https://zeta.example/v2"},
		{Name: "Acme Chain", URL: "https://fund.example/portfolio/acme-chain"},
	}, candidates)
}

func TestPortfolioParseSkipsOwnDomainNavigation(t *testing.T) {
	t.Parallel()

	page := `<a href="/news/latest">Latest funding news</a>
<a href="/companies/beta-labs">Beta Labs</a>`

	p := NewPortfolio()
	candidates, err := p.Parse("https://fund.example/", []byte(page))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "Beta Labs", candidates[0].Name)
	require.Equal(t, "https://fund.example/companies/beta-labs", candidates[0].URL)
}

func TestPortfolioParseBadBaseURL(t *testing.T) {
	t.Parallel()

	p := NewPortfolio()
	_, err := p.Parse("://not-a-url", []byte("<a href='/x'>Thing</a>"))
	require.Error(t, err)
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	r := Default()
	p, err := r.Resolve("portfolio")
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = r.Resolve("nonexistent")
	require.ErrorContains(t, err, "unknown parser")
}
