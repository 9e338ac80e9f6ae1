// Package integrations holds the shared plumbing for the third-party
// API clients: a uniform error taxonomy, a thin JSON HTTP client,
// bearer-token lifecycle management, client-side rate limiting and
// opaque pagination cursors. Each concrete integration is a typed
// client over one endpoint (or a short fixed sequence) built on these
// pieces.
package integrations

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrorKind classifies an integration failure. Every error that leaves
// an integration carries exactly one kind, so callers branch on the
// class rather than on status codes or provider-specific payloads.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindAuth        ErrorKind = "auth"
	KindRateLimited ErrorKind = "rate_limited"
	KindNotFound    ErrorKind = "not_found"
	KindServerError ErrorKind = "server_error"
	KindNetwork     ErrorKind = "network"
)

// APIError is the uniform error returned by integration clients.
type APIError struct {
	Service    string
	Kind       ErrorKind
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (%d): %s", e.Service, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Service, e.Kind, e.Message)
}

// KindFromStatus maps an HTTP status code to an error kind.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound || status == http.StatusGone:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	case status >= 400:
		return KindValidation
	default:
		return KindServerError
	}
}

// KindOf extracts the kind from an error chain. Errors that are not
// APIErrors classify as network when they look like transport
// failures and server_error otherwise.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindServerError
}

// IsAuth reports whether the error is a credential failure.
func IsAuth(err error) bool { return kindIs(err, KindAuth) }

// IsRateLimited reports whether the error is a rate-limit rejection.
func IsRateLimited(err error) bool { return kindIs(err, KindRateLimited) }

// IsNotFound reports whether the error is a missing resource.
func IsNotFound(err error) bool { return kindIs(err, KindNotFound) }

// IsValidation reports whether the error is a rejected request.
func IsValidation(err error) bool { return kindIs(err, KindValidation) }

func kindIs(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Errorf builds a classified APIError without an HTTP status, for
// failures detected before or after the wire call.
func Errorf(service string, kind ErrorKind, format string, args ...any) *APIError {
	return &APIError{Service: service, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapTransport converts a transport-level error (dial, TLS, timeout,
// canceled context) into a network-kind APIError. APIErrors pass
// through untouched.
func WrapTransport(service string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &APIError{Service: service, Kind: KindNetwork, Message: err.Error()}
}
