package prompt

import (
	"fmt"
	"time"
)

// RateLimitError indicates the generator kept answering HTTP 429 after every
// retry.
type RateLimitError struct {
	Err      error
	Attempts int
	Waited   time.Duration
	Provider string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited after %d attempts (waited %s): %v", e.Provider, e.Attempts, e.Waited, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer from the generator. Body holds at most the
// first 200 bytes of the response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Body)
}
