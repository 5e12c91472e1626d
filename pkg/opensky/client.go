package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public OpenSky Network API endpoint.
	DefaultBaseURL = "https://opensky-network.org/api"

	// DefaultTimeout bounds a single /states/all request. The feed can be
	// slow under load; anything past this is treated as a fetch failure.
	DefaultTimeout = 12 * time.Second

	// DefaultRateInterval is the minimum spacing between /states/all
	// calls for anonymous access (per OpenSky's published limits).
	DefaultRateInterval = 10 * time.Second
)

// Client fetches state vectors from the OpenSky Network API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithCredentials sets Basic Auth credentials for the registered-user
// tier. Anonymous access works without them at a lower rate limit.
func WithCredentials(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithRateInterval sets the minimum spacing between requests. A zero or
// negative interval disables client-side rate limiting.
func WithRateInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewClient creates an OpenSky API client with default timeout and
// anonymous-tier rate limiting.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(DefaultRateInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetStates retrieves the current /states/all snapshot. It blocks on the
// client-side rate limiter before issuing the request, returns a typed
// *RateLimitError on HTTP 429 and *HTTPError on other non-200 statuses.
func (c *Client) GetStates(ctx context.Context) (*StatesResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	url := c.baseURL + "/states/all"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	var states StatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("parsing states response: %w", err)
	}
	return &states, nil
}
