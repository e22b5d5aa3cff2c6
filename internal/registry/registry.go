// Package registry defines the static list of portfolio sources to poll.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

// ParserPortfolio is the parser key for the generic portfolio-grid parser.
const ParserPortfolio = "portfolio"

// builtin is the default source list, polled when no registry file is
// configured.
var builtin = []signal.Source{
	{Key: "binance_labs", Name: "Binance Labs Portfolio", URL: "https://labs.binance.com/portfolio", Parser: ParserPortfolio},
	{Key: "a16z_crypto", Name: "a16z Crypto Portfolio", URL: "https://a16z.com/portfolio/", Parser: ParserPortfolio},
	{Key: "wintermute", Name: "Wintermute Investments", URL: "https://www.wintermute.com/portfolio/", Parser: ParserPortfolio},
	{Key: "pantera", Name: "Pantera Capital Portfolio", URL: "https://panteracapital.com/portfolio/", Parser: ParserPortfolio},
	{Key: "multicoin", Name: "Multicoin Capital Portfolio", URL: "https://multicoin.capital/portfolio/", Parser: ParserPortfolio},
	{Key: "polychain", Name: "Polychain Capital Portfolio", URL: "https://polychain.capital/portfolio/", Parser: ParserPortfolio},
	{Key: "paradigm", Name: "Paradigm Portfolio", URL: "https://www.paradigm.xyz/companies", Parser: ParserPortfolio},
	{Key: "dragonfly", Name: "Dragonfly Portfolio", URL: "https://www.dragonfly.xyz/portfolio", Parser: ParserPortfolio},
	{Key: "jump_crypto", Name: "Jump Crypto Portfolio", URL: "https://www.jumpcrypto.com/portfolio", Parser: ParserPortfolio},
	{Key: "electric_capital", Name: "Electric Capital Portfolio", URL: "https://www.electriccapital.com/portfolio", Parser: ParserPortfolio},
	{Key: "hashed", Name: "Hashed Portfolio", URL: "https://www.hashed.com/portfolio", Parser: ParserPortfolio},
	{Key: "framework", Name: "Framework Ventures Portfolio", URL: "https://framework.ventures/portfolio/", Parser: ParserPortfolio},
	{Key: "animoca", Name: "Animoca Brands Investments", URL: "https://www.animocabrands.com/investment-portfolio", Parser: ParserPortfolio},
	{Key: "okx_ventures", Name: "OKX Ventures Portfolio", URL: "https://www.okx.com/ventures/portfolio", Parser: ParserPortfolio},
}

type registryFile struct {
	Sources []signal.Source `yaml:"sources"`
}

// Load returns the source list. A non-empty path replaces the built-ins
// with the YAML registry at that location.
func Load(path string) ([]signal.Source, error) {
	if path == "" {
		out := make([]signal.Source, len(builtin))
		copy(out, builtin)
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source registry: %w", err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse source registry: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("source registry %s defines no sources", path)
	}
	if err := validate(file.Sources); err != nil {
		return nil, err
	}
	return file.Sources, nil
}

func validate(sources []signal.Source) error {
	keys := make(map[string]struct{}, len(sources))
	for i, src := range sources {
		if src.Key == "" || src.Name == "" || src.URL == "" {
			return fmt.Errorf("source %d: key, name and url are required", i)
		}
		if src.Parser == "" {
			return fmt.Errorf("source %q: parser is required", src.Key)
		}
		if _, dup := keys[src.Key]; dup {
			return fmt.Errorf("source key %q is defined twice", src.Key)
		}
		keys[src.Key] = struct{}{}
	}
	return nil
}
