package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrRateLimited marks a backend refusal caused by GitHub rate limiting.
// Callers branch on it with errors.Is to show an actionable message
// instead of the generic failure text.
var ErrRateLimited = errors.New("api: rate limited")

// APIError is a non-2xx response from the backend, carrying the
// server-provided detail when one was sent.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("api: backend returned HTTP %d: %s", e.StatusCode, e.Detail)
}

// checkResponse maps a non-2xx response to an error. The backend wraps
// failure detail as {"detail": "..."}; rate limiting shows up either as
// HTTP 429 or as a detail string mentioning the limit.
func checkResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	detail := extractDetail(body)

	if statusCode == http.StatusTooManyRequests || isRateLimitDetail(detail) || isRateLimitDetail(string(body)) {
		if detail == "" {
			return fmt.Errorf("%w (HTTP %d)", ErrRateLimited, statusCode)
		}
		return fmt.Errorf("%w (HTTP %d): %s", ErrRateLimited, statusCode, detail)
	}

	return &APIError{StatusCode: statusCode, Detail: detail}
}

// extractDetail pulls the detail string from a FastAPI error body.
// Falls back to the raw body when it isn't the expected shape.
func extractDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return truncate(strings.TrimSpace(string(body)), 200)
}

func isRateLimitDetail(s string) bool {
	return strings.Contains(strings.ToLower(s), "rate limit")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
