package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	// ErrNotFoundOrUnavailable is the client-side claim guard failure: the
	// lesson is absent from the collection or not claimable. No upstream
	// call is issued when this is returned.
	ErrNotFoundOrUnavailable = New("NOT_FOUND_OR_UNAVAILABLE", http.StatusConflict, "lesson not found or not available")
	// ErrClaimInFlight rejects a second claim on an id whose first claim has
	// not resolved yet.
	ErrClaimInFlight = New("CLAIM_IN_FLIGHT", http.StatusConflict, "claim already in progress for this lesson")
	// ErrUpstreamFailure covers non-2xx responses and transport errors from
	// the lesson service.
	ErrUpstreamFailure = New("UPSTREAM_FAILURE", http.StatusBadGateway, "lesson service request failed")
	// ErrUpstreamTimeout is returned when the bounded wait on the lesson
	// service is exceeded.
	ErrUpstreamTimeout = New("UPSTREAM_TIMEOUT", http.StatusGatewayTimeout, "lesson service request timed out")
	// ErrParseFailure marks a malformed lesson service response.
	ErrParseFailure = New("PARSE_FAILURE", http.StatusBadGateway, "malformed lesson service response")

	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrCacheMiss is a sentinel used by the cache repository; it never
	// reaches an HTTP response.
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
