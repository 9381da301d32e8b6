package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
)

// NetworkError indicates the upstream API could not be reached at all
// (connection refused, DNS failure, client timeout). No response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("upstream unreachable: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError indicates the upstream API answered with a non-2xx status.
// The status code is preserved so callers can report it.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string { return fmt.Sprintf("upstream HTTP %d: %s", e.Status, e.Body) }

// ShapeError indicates the upstream response parsed as JSON but matched none
// of the expected payload shapes for the endpoint.
type ShapeError struct {
	Endpoint string
	Err      error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected %s payload shape: %v", e.Endpoint, e.Err)
}
func (e *ShapeError) Unwrap() error { return e.Err }

// ValidationError indicates missing or malformed caller input. It is the one
// error class surfaced to clients as a 4xx instead of a degraded payload.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }
