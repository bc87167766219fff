// Package yahoo provides a client for the Yahoo Finance v8 chart API.
// This package centralizes all quote provider interactions for the application.
package yahoo

import (
	"fmt"
	"time"
)

// Close is a single daily closing price.
type Close struct {
	Date  time.Time
	Price float64
}

// APIError represents an error response from the Yahoo Finance API.
type APIError struct {
	StatusCode int
	Message    string
	Symbol     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, symbol: %s)", e.Message, e.StatusCode, e.Symbol)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Yahoo Finance rate limit exceeded, retry after %v", e.RetryAfter)
}
