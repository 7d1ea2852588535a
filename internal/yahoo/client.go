// Package yahoo provides the market-data adapter backed by the public
// Yahoo Finance endpoints. No authentication is required.
package yahoo

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	"equitydash/internal/errors"
	"equitydash/internal/logging"
)

const (
	// DefaultBaseURL is the production query host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// Some Yahoo endpoints reject requests without a browser-like agent.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// Client issues requests against the Yahoo Finance API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the query host, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Yahoo Finance client.
func New(logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, endpoint string, params interface{}) ([]byte, error) {
	u := c.baseURL + endpoint
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding params for %s", endpoint)
		}
		if encoded := values.Encode(); encoded != "" {
			u += "?" + encoded
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", endpoint)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	logging.LogAPICall(c.logger, "yahoo", endpoint, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrapf(err, "calling %s", endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %s", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewAPIError("yahoo", endpoint, resp.StatusCode, string(body))
	}

	return body, nil
}
