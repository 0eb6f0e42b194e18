package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// FailureKind classifies why a completion attempt produced no usable
// reply. The conversation engine maps every kind to a caller-safe
// fallback; the kind only matters for logging and fallback selection.
type FailureKind string

const (
	FailureTimeout     FailureKind = "timeout"
	FailureUnavailable FailureKind = "unavailable"
	FailureBadResponse FailureKind = "bad_response"
)

// Failure is the typed error returned by the completion client.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("completion failure: %s", f.Kind)
	}
	return fmt.Sprintf("completion failure (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf extracts the failure kind from an error chain, defaulting to
// bad_response for anything the client did not classify.
func KindOf(err error) FailureKind {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind
	}
	return FailureBadResponse
}

// classify wraps a raw model error in a typed Failure.
func classify(err error) *Failure {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: FailureTimeout, Err: err}
	case isTransportError(err):
		return &Failure{Kind: FailureUnavailable, Err: err}
	default:
		return &Failure{Kind: FailureBadResponse, Err: err}
	}
}

func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
