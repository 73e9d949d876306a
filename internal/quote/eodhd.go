package quote

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultEODHDBaseURL is the EODHD API root.
const DefaultEODHDBaseURL = "https://eodhd.com/api"

// defaultExchange is appended to tickers given without one.
const defaultExchange = "US"

// EODHDClient quotes stocks and ETFs from the EODHD real-time endpoint.
type EODHDClient struct {
	httpClient
	apiKey string
}

// NewEODHDClient creates a new EODHD client
func NewEODHDClient(apiKey string, opts ...ClientOption) *EODHDClient {
	return &EODHDClient{
		httpClient: newHTTPClient("eodhd", DefaultEODHDBaseURL, opts),
		apiKey:     apiKey,
	}
}

// Name returns the source name.
func (c *EODHDClient) Name() string { return "eodhd" }

type realTimeResponse struct {
	Code  string      `json:"code"`
	Close flexDecimal `json:"close"`
}

// Quote returns the latest close for symbol. Tickers without an exchange
// suffix are looked up on the US exchange.
func (c *EODHDClient) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ticker := strings.ToUpper(strings.TrimSpace(symbol))
	if ticker == "" {
		return decimal.Zero, fmt.Errorf("empty symbol")
	}
	if !strings.Contains(ticker, ".") {
		ticker += "." + defaultExchange
	}

	params := url.Values{}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	var resp realTimeResponse
	if err := c.get(ctx, "/real-time/"+url.PathEscape(ticker), params, nil, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("quoting %s: %w", ticker, err)
	}
	price := decimal.Decimal(resp.Close)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("quoting %s: no price available", ticker)
	}
	return price, nil
}
