package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCoinGeckoBaseURL is the CoinGecko public API root.
const DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient quotes crypto assets by CoinGecko coin id (e.g. "bitcoin").
type CoinGeckoClient struct {
	httpClient
	apiKey     string
	vsCurrency string
}

// NewCoinGeckoClient creates a client pricing coins in vsCurrency ("usd" if empty).
func NewCoinGeckoClient(apiKey, vsCurrency string, opts ...ClientOption) *CoinGeckoClient {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	return &CoinGeckoClient{
		httpClient: newHTTPClient("coingecko", DefaultCoinGeckoBaseURL, opts),
		apiKey:     apiKey,
		vsCurrency: strings.ToLower(vsCurrency),
	}
}

// Name returns the source name.
func (c *CoinGeckoClient) Name() string { return "coingecko" }

// Quote returns the current price of the coin id in the configured currency.
func (c *CoinGeckoClient) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	coin := strings.ToLower(strings.TrimSpace(symbol))
	if coin == "" {
		return decimal.Zero, fmt.Errorf("empty symbol")
	}

	params := url.Values{}
	params.Set("ids", coin)
	params.Set("vs_currencies", c.vsCurrency)

	var header http.Header
	if c.apiKey != "" {
		header = http.Header{"X-Cg-Demo-Api-Key": []string{c.apiKey}}
	}

	var resp map[string]map[string]flexDecimal
	if err := c.get(ctx, "/simple/price", params, header, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("quoting %s: %w", coin, err)
	}
	price := decimal.Decimal(resp[coin][c.vsCurrency])
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("quoting %s: no price available", coin)
	}
	return price, nil
}
