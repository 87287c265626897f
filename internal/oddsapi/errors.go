package oddsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from The Odds API. The API reports
// failures as {"message": "..."} bodies; the raw body is kept when the
// message can't be parsed.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Sprintf("failed to authenticate with the API (is the API key valid?): %s", e.Message)
	case http.StatusTooManyRequests:
		return fmt.Sprintf("encountered API rate limit: %s", e.Message)
	default:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
}

func newAPIError(statusCode int, body []byte) *APIError {
	var resp errorResponse
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		message = resp.Message
	}
	return &APIError{StatusCode: statusCode, Message: message}
}

// IsAuthError reports whether err is a 401 from the API.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsRateLimitError reports whether err is a 429 from the API.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
