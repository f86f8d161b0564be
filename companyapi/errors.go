package companyapi

import (
	"errors"
	"fmt"
)

// ErrBaseURLRequired is returned when a client is created without a base URL.
var ErrBaseURLRequired = errors.New("base URL is required")

// ErrorKind classifies a count API failure.
type ErrorKind int

const (
	// KindUnexpected covers status codes the client does not recognize.
	KindUnexpected ErrorKind = iota
	// KindUnauthorized means the API key is missing or invalid (401).
	KindUnauthorized
	// KindBadRequest means the API rejected the request payload (400).
	KindBadRequest
	// KindCriteriaConflict means the criteria are mutually incompatible (456).
	KindCriteriaConflict
	// KindTransport covers timeouts and connection failures.
	KindTransport
)

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindCriteriaConflict:
		return "criteria_conflict"
	case KindTransport:
		return "transport"
	default:
		return "unexpected"
	}
}

// APIError is a classified count API failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("company API %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("company API %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}
