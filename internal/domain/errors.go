package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the aggregation layer.
var (
	// ErrInvalidRequest indicates the search parameters failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoOperators indicates the directory returned no operators to search.
	ErrNoOperators = errors.New("no operators configured")

	// ErrOperatorNotFound indicates a requested operator id is not in the directory.
	ErrOperatorNotFound = errors.New("operator not found")

	// ErrAuthentication indicates a portal login did not reach an authenticated state.
	ErrAuthentication = errors.New("authentication failed")

	// ErrExtractionTimeout indicates an expected portal element never appeared.
	ErrExtractionTimeout = errors.New("extraction timed out")

	// ErrExtraction indicates any other failure along the scrape path.
	ErrExtraction = errors.New("extraction failed")

	// ErrSessionClosed indicates a session was used after it was closed or before login.
	ErrSessionClosed = errors.New("session not authenticated")
)

// FailureKind classifies an operator-level failure for diagnostics.
type FailureKind string

const (
	FailureAuthentication    FailureKind = "authentication"
	FailureExtractionTimeout FailureKind = "extraction_timeout"
	FailureExtraction        FailureKind = "extraction"
	FailureTimeout           FailureKind = "timeout"
	FailureCancelled         FailureKind = "cancelled"
	FailurePanic             FailureKind = "panic"
	FailureUnknown           FailureKind = "unknown"
)

// ErrOperatorPanic marks a task that panicked while querying an operator.
var ErrOperatorPanic = errors.New("operator task panicked")

// OperatorError wraps a scrape failure with the operator it belongs to.
// Is matches both the kind sentinel and the underlying cause.
type OperatorError struct {
	Operator  string
	Kind      error
	Err       error
	Retryable bool
}

// Error implements the error interface.
func (e *OperatorError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("operator %s: %v", e.Operator, e.Kind)
	}
	return fmt.Sprintf("operator %s: %v: %v", e.Operator, e.Kind, e.Err)
}

// Unwrap exposes the kind sentinel and the cause to errors.Is / errors.As.
func (e *OperatorError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAuthenticationError reports a failed login. Authentication failures are never retried.
func NewAuthenticationError(operator string, reason error) *OperatorError {
	return &OperatorError{Operator: operator, Kind: ErrAuthentication, Err: reason}
}

// NewExtractionTimeoutError reports a portal element that never appeared.
func NewExtractionTimeoutError(operator, selector string, cause error) *OperatorError {
	err := fmt.Errorf("waiting for %q", selector)
	if cause != nil {
		err = fmt.Errorf("waiting for %q: %w", selector, cause)
	}
	return &OperatorError{Operator: operator, Kind: ErrExtractionTimeout, Err: err, Retryable: true}
}

// NewExtractionError reports any other scrape-path failure.
func NewExtractionError(operator string, cause error) *OperatorError {
	return &OperatorError{Operator: operator, Kind: ErrExtraction, Err: cause}
}

// IsRetryable reports whether err is an operator error marked retryable.
func IsRetryable(err error) bool {
	var opErr *OperatorError
	if errors.As(err, &opErr) {
		return opErr.Retryable
	}
	return false
}

// ClassifyFailure maps an operator task error to its diagnostic kind.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication):
		return FailureAuthentication
	case errors.Is(err, ErrExtractionTimeout):
		return FailureExtractionTimeout
	case errors.Is(err, ErrExtraction):
		return FailureExtraction
	case errors.Is(err, ErrOperatorPanic):
		return FailurePanic
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCancelled
	default:
		return FailureUnknown
	}
}
