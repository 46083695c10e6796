// Package llm - errors.go classifies provider request failures.
package llm

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// RateLimitError indicates the provider rejected a request because a rate
// or quota limit was exceeded. These failures are retryable after a delay.
type RateLimitError struct {
	Provider Provider
	Cause    error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded: %v", e.Provider, e.Cause)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// IsRateLimit reports whether err is, or wraps, a rate-limit rejection.
func IsRateLimit(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

// classifyRequestError wraps provider errors that signal throttling so
// callers can tell retryable rate limiting apart from hard failures.
func classifyRequestError(provider Provider, err error) error {
	if err == nil {
		return nil
	}

	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) && googleErr.Code == http.StatusTooManyRequests {
		return &RateLimitError{Provider: provider, Cause: err}
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) && openaiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Provider: provider, Cause: err}
	}

	return err
}
