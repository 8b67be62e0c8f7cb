// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an adapter failure. Kinds are stable strings so they
// can label metrics and appear in partial-failure reports.
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindRateLimited ErrorKind = "rate_limited"
	KindTimeout     ErrorKind = "timeout"
	KindUnavailable ErrorKind = "unavailable"
	KindMalformed   ErrorKind = "malformed_response"
)

// Error is a classified adapter failure. KindRateLimited here means the
// provider itself refused the request after retries; it is distinct from the
// local rate limiter's timeout.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a provider name and kind.
func NewError(provider string, kind ErrorKind, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// KindOf extracts the error kind, defaulting to unavailable for unclassified
// failures and timeout for context deadline errors.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnavailable
}

// classifyStatus maps an HTTP status to an error kind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindUnavailable
	default:
		return KindMalformed
	}
}

// statusError builds a classified error from a non-200 provider response.
func statusError(provider string, status int) *Error {
	return NewError(provider, classifyStatus(status), fmt.Errorf("HTTP %d", status))
}

// wrapTransportError classifies a transport-level failure, honoring context
// deadline and cancellation.
func wrapTransportError(provider string, err error) *Error {
	kind := KindUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	} else if errors.Is(err, context.Canceled) {
		kind = KindTimeout
	}
	return NewError(provider, kind, err)
}
