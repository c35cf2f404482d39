package fathom

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned for 401/403 responses, usually a missing or invalid API key
	ErrUnauthorized = errors.New("fathom: unauthorized, check FATHOM_API_KEY")

	// ErrNotFound is returned when the recording or resource does not exist
	ErrNotFound = errors.New("fathom: not found")

	// ErrRateLimited is returned for 429 responses
	ErrRateLimited = errors.New("fathom: rate limited")

	// ErrUnexpectedResponse is returned when a response body has an unrecognized shape
	ErrUnexpectedResponse = errors.New("fathom: unexpected response format")
)

// APIError carries a non-success status that has no dedicated sentinel
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fathom api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("fathom api error (status %d): %s", e.StatusCode, e.Body)
}

// Error represents a failed Fathom operation
type Error struct {
	Op          string
	RecordingID int64
	Err         error
}

func (e *Error) Error() string {
	if e.RecordingID != 0 {
		return fmt.Sprintf("fathom %s (recording %d): %v", e.Op, e.RecordingID, e.Err)
	}
	return fmt.Sprintf("fathom %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func unexpected(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedResponse, fmt.Sprintf(format, args...))
}
