// Package fetch provides the outbound HTTP client shared by the transcript
// locator and the SEC resolver. Every request carries a caller-supplied
// contact identity in the User-Agent, per SEC fair-access guidelines.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 30 * time.Second

	// secRequestsPerSecond paces JSON calls against SEC endpoints.
	// SEC documents a 10 req/s ceiling.
	secRequestsPerSecond = 10

	// jsonMaxRetries is the retry budget for JSON fetches before the
	// failure propagates to the caller.
	jsonMaxRetries = 3
)

// Client is an identity-stamped HTTP client. Construct once and pass by
// parameter; it holds no request state.
type Client struct {
	httpClient *http.Client
	userAgent  string
	secLimiter ratelimit.Limiter
	logger     *zap.Logger
}

// NewClient builds a Client. identity must be a non-empty contact string
// (e.g. an email address); it is refused up front so no request ever goes
// out unidentified.
func NewClient(identity string, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, errors.New("identity contact string is required (SEC requires a descriptive User-Agent)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  fmt.Sprintf("finance-podcast-bot (%s)", identity),
		secLimiter: ratelimit.New(secRequestsPerSecond),
		logger:     logger,
	}, nil
}

// GetHTML fetches a page as text. Single-shot: callers that iterate
// candidates handle failures by moving on, so there is no retry here.
func (c *Client) GetHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return string(body), nil
}

// GetJSON fetches a JSON document and decodes it into out. Calls are paced
// by the SEC rate limiter and transient failures (transport errors, 429,
// 5xx) are retried with exponential backoff before the error propagates.
// A response that cannot be decoded is a fatal error, never coerced.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	var body []byte

	operation := func() error {
		c.secLimiter.Take()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json,*/*")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", url, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to read
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("GET %s returned status %d", url, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response from %s: %w", url, err)
		}
		return nil
	}

	notify := func(err error, d time.Duration) {
		c.logger.Warn("retrying JSON fetch", zap.String("url", url), zap.Duration("backoff", d), zap.Error(err))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), jsonMaxRetries), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unexpected JSON from %s: %w", url, err)
	}
	return nil
}
