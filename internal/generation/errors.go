package generation

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned at client construction when no credential for
// the generation service is available. No call is ever attempted without one.
var ErrMissingAPIKey = errors.New("generation API key not configured")

// ErrEmptyResponse is returned when the service answered successfully but the
// response carried no usable text content.
var ErrEmptyResponse = errors.New("generation service returned no content")

// UpstreamError reports a non-success status from the generation service.
// The body is kept verbatim for diagnostics.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation request failed with status %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError reports that the service returned text that could
// not be parsed into the expected JSON shape. Raw carries the full response
// text so callers can log it.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("generation response is not valid JSON: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
