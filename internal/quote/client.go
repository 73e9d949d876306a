// Package quote fetches current asset prices from public quote APIs.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/cleared-dev/runway/internal/logging"
	"github.com/cleared-dev/runway/internal/metrics"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client looks up the latest price of one symbol.
type Client interface {
	Name() string
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// APIError represents a non-200 response from a quote API.
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s (status: %d, endpoint: %s)", e.Source, e.Message, e.StatusCode, e.Endpoint)
}

// flexDecimal handles JSON prices that may be a number or a string.
// Placeholders such as "NA" decode as zero.
type flexDecimal decimal.Decimal

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err == nil {
		*f = flexDecimal(d)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexDecimal(decimal.Zero)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into a price", string(data))
}

// httpClient holds the transport shared by the quote clients.
type httpClient struct {
	source     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	limiter    *rate.Limiter
}

// ClientOption configures a quote client.
type ClientOption func(*httpClient)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *httpClient) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit. Non-positive values keep the default.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *httpClient) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *httpClient) {
		c.httpClient.Timeout = timeout
	}
}

func newHTTPClient(source, baseURL string, opts []ClientOption) httpClient {
	c := httpClient{
		source:  source,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  logging.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// get performs a rate-limited GET request and decodes the JSON body into result.
func (c *httpClient) get(ctx context.Context, path string, params url.Values, header http.Header, result any) (err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.QuoteRequests.WithLabelValues(c.source, status).Inc()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("source", c.source).Str("url", c.baseURL+path).Msg("quote API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
