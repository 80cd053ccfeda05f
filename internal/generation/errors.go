package generation

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a provider failure. Transient kinds are retried by
// the Client with backoff; permanent kinds propagate immediately.
type ErrorKind string

const (
	KindRateLimited      ErrorKind = "rate_limited"
	KindTimeout          ErrorKind = "timeout"
	KindUnavailable      ErrorKind = "unavailable"
	KindInvalidRequest   ErrorKind = "invalid_request"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindContentFiltered  ErrorKind = "content_filtered"
	KindUnknown          ErrorKind = "unknown"
)

// ErrModelNotFound is returned when no registered provider serves a model.
var ErrModelNotFound = errors.New("no provider registered for model")

// CallError is the failure returned by Client.Generate. It records how many
// attempts were made before giving up.
type CallError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("generation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

// Unwrap exposes the last underlying provider error.
func (e *CallError) Unwrap() error {
	return e.Err
}

// Error is a classified provider failure.
type Error struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Provider, e.Message, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Kind)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is expected to resolve on retry.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindTimeout, KindUnavailable:
		return true
	default:
		return false
	}
}

// NewError creates a classified provider error.
func NewError(provider string, kind ErrorKind, message string, cause error) *Error {
	return &Error{Provider: provider, Kind: kind, Message: message, Err: cause}
}

// IsRetryable classifies any error. Context deadline expiry counts as a
// timeout; unclassified errors are treated as non-retryable.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// KindOf returns the error's kind, or KindUnknown for unclassified errors.
func KindOf(err error) ErrorKind {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}
