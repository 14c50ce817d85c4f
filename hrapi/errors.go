package hrapi

import (
	"fmt"
	"net/http"

	errs "github.com/staffdesk/staffdesk/internal/errors"
)

// APIError is a non-2xx response from the HR backend. Message carries the
// backend's own message verbatim when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend %d", e.StatusCode)
}

// Unwrap maps the status code onto the application's sentinel errors so
// callers can branch with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return errs.ErrUnauthorized
	case http.StatusNotFound:
		return errs.ErrNotFound
	default:
		return errs.ErrBackend
	}
}

// UserMessage is the text safe to show the caller: the backend's message
// when present, otherwise a generic fallback.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "An unexpected error occurred. Please try again."
}
