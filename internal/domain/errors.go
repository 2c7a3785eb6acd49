package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidListing signals a listing that fails basic validation.
	ErrInvalidListing = errors.New("invalid listing")
	// ErrCorpusUnavailable signals that the best-practice corpus cannot serve a query.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// CompletionError describes a failed completion call: either a non-200 HTTP
// status from the provider or a transport-level failure (StatusCode == 0).
// Completion calls are attempted exactly once and never retried.
type CompletionError struct {
	StatusCode int
	Body       string
}

func (e *CompletionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion API error: %d - %s", e.StatusCode, e.Body)
	}
	return "analysis failed: " + e.Body
}

// NewCompletionHTTPError creates a CompletionError for a non-200 response.
func NewCompletionHTTPError(status int, body string) error {
	return &CompletionError{StatusCode: status, Body: body}
}

// NewCompletionTransportError creates a CompletionError for a network or
// timeout failure.
func NewCompletionTransportError(msg string) error {
	return &CompletionError{Body: msg}
}
