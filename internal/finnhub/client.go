// Package finnhub provides a client for the Finnhub ancillary data API.
package finnhub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	"equitydash/internal/errors"
	"equitydash/internal/logging"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Client issues authenticated GET requests against the Finnhub API.
// All methods are safe for concurrent use; the token is read-only after
// construction.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Finnhub client with the given API token.
func New(token string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		http:    http.DefaultClient,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET against endpoint with params encoded as the query
// string and returns the raw response body. Non-2xx responses are
// returned as an APIError carrying the status and body.
func (c *Client) Get(ctx context.Context, endpoint string, params interface{}) ([]byte, error) {
	if c.token == "" {
		return nil, errors.ErrMissingToken
	}

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
	req.Header.Set("X-Finnhub-Token", c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	logging.LogAPICall(c.logger, "finnhub", endpoint, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrapf(err, "calling %s", endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %s", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewAPIError("finnhub", endpoint, resp.StatusCode, string(body))
	}

	return body, nil
}

// String implements fmt.Stringer without exposing the token.
func (c *Client) String() string {
	return fmt.Sprintf("finnhub.Client(%s)", c.baseURL)
}
