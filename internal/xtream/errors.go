// SPDX-License-Identifier: MIT

package xtream

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrTimeout     = errors.New("upstream: request timed out")
	ErrDenied      = errors.New("upstream: access denied")
	ErrUpstream    = errors.New("upstream: unexpected HTTP status")
	ErrBadResponse = errors.New("upstream: invalid response format or malformed data")
)

// APIError wraps the sentinel errors with request context.
type APIError struct {
	Sentinel error
	Action   string
	Status   int
	Err      error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("xtream: %s: %v", e.Action, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}
