// Package lookup exchanges numeric verification codes for credential
// payloads over HTTP.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iotc-provision/provision-go/pkg/credential"
)

// Client defaults.
const (
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	// DefaultRate is the sustained number of lookups per second.
	DefaultRate = 1.0

	// DefaultBurst is the number of lookups allowed back to back.
	DefaultBurst = 3
)

// Lookup errors.
var (
	ErrCodeNotFound = errors.New("code not found")
	ErrCodeExpired  = errors.New("code expired")
)

// Config configures a Client.
type Config struct {
	// BaseURL is the code service root, e.g. "https://codes.example.com".
	BaseURL string

	// Rate and Burst throttle outgoing lookups. Zero values use the defaults;
	// a negative Rate disables throttling.
	Rate  float64
	Burst int

	// HTTPClient overrides the default client (timeout DefaultTimeout).
	HTTPClient *http.Client
}

// Client exchanges codes against the code service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// exchangeResponse is the body of a successful exchange.
type exchangeResponse struct {
	Payload string `json:"payload"`
}

// NewClient creates a lookup client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("lookup: base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("lookup: invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	c := &Client{
		baseURL:    base,
		httpClient: httpClient,
	}

	if cfg.Rate >= 0 {
		r, burst := cfg.Rate, cfg.Burst
		if r == 0 {
			r = DefaultRate
		}
		if burst <= 0 {
			burst = DefaultBurst
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}

	return c, nil
}

// Exchange resolves a code to its payload. Throttling waits for a token
// (bounded by ctx); a failed exchange is never retried.
func (c *Client) Exchange(ctx context.Context, code credential.VerificationCode) (credential.RawCode, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("lookup throttled: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/api/codes/%s", c.baseURL, url.PathEscape(code.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrCodeNotFound
	case http.StatusGone:
		return "", ErrCodeExpired
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("lookup request failed with code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if result.Payload == "" {
		return "", errors.New("lookup response has no payload")
	}
	return credential.RawCode(result.Payload), nil
}

// Compile-time interface satisfaction check.
var _ credential.CodeLookup = (*Client)(nil)
