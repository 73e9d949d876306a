package quote

import (
	"github.com/cleared-dev/runway/internal/config"
	"github.com/cleared-dev/runway/internal/logging"
)

// Asset types routed to each source.
var (
	eodhdAssetTypes     = []string{"stock", "etf", "fund"}
	coinGeckoAssetTypes = []string{"crypto"}
)

// NewRefresherFromConfig wires EODHD for listed securities and CoinGecko for
// crypto. Other non-cash asset types fall back to EODHD.
func NewRefresherFromConfig(cfg config.QuotesConfig, logger *logging.Logger) *Refresher {
	eod := NewEODHDClient(cfg.EODHD.APIKey, sourceOptions(cfg.EODHD, DefaultEODHDBaseURL, logger)...)
	cg := NewCoinGeckoClient(cfg.CoinGecko.APIKey, cfg.VsCurrency, sourceOptions(cfg.CoinGecko, DefaultCoinGeckoBaseURL, logger)...)

	clients := make(map[string]Client)
	for _, t := range eodhdAssetTypes {
		clients[t] = eod
	}
	for _, t := range coinGeckoAssetTypes {
		clients[t] = cg
	}
	return NewRefresher(clients, eod, logger)
}

func sourceOptions(src config.QuoteSourceConfig, defaultURL string, logger *logging.Logger) []ClientOption {
	baseURL := src.BaseURL
	if baseURL == "" {
		baseURL = defaultURL
	}
	opts := []ClientOption{
		WithBaseURL(baseURL),
		WithRateLimit(src.RateLimit),
		WithTimeout(src.GetTimeout()),
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return opts
}
