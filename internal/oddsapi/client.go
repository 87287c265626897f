package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	apiVersion     = "v4"
	timeout        = 10 * time.Second
	maxRetries     = 3
	retryDelay     = 2 * time.Second
)

// Client talks to The Odds API v4.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	mu         sync.RWMutex
	rateLimits RateLimits
}

// RateLimits mirrors the quota headers the API returns on every response.
type RateLimits struct {
	RequestsRemaining int
	RequestsUsed      int
}

// NewClient creates a client for The Odds API.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Sports returns the keys of all in-season sports, excluding outright
// (futures) markets which have no head-to-head outcomes to compare.
func (c *Client) Sports(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/sports", c.baseURL, apiVersion)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch sports failed: %w", err)
	}

	var apiResp []sportResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse sports response: %w", err)
	}

	keys := make([]string, 0, len(apiResp))
	for _, sport := range apiResp {
		if sport.HasOutrights {
			continue
		}
		keys = append(keys, sport.Key)
	}
	return keys, nil
}

// Odds returns every match for a sport with current bookmaker quotes.
// Prices come back as decimal odds and commence times as unix seconds.
func (c *Client) Odds(ctx context.Context, sport, region, market string) ([]Match, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/odds", c.baseURL, apiVersion, sport)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", region)
	params.Set("markets", market)
	params.Set("oddsFormat", "decimal")
	params.Set("dateFormat", "unix")

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch odds for %s failed: %w", sport, err)
	}

	var matches []Match
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("parse odds response: %w", err)
	}

	return matches, nil
}

// GetRateLimits returns the quota info from the most recent response.
func (c *Client) GetRateLimits() RateLimits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rateLimits
}

// doRequestWithRetry retries transient failures (5xx, 429) with
// exponential backoff. Client errors other than 429 fail immediately.
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if apiErr, ok := err.(*APIError); ok {
			if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	c.updateRateLimits(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) updateRateLimits(headers http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remaining := headers.Get("x-requests-remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimits.RequestsRemaining = val
		}
	}

	if used := headers.Get("x-requests-used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			c.rateLimits.RequestsUsed = val
		}
	}
}
