package api

import (
	"errors"
	"fmt"
	"net/http"

	wherrors "github.com/jrsteele09/go-warehouse-client/internal/errors"
)

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Message    string // Server supplied error or message field, else the status text
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well known status codes onto the shared sentinels so callers can use errors.Is.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return wherrors.ErrUnauthorized
	case http.StatusForbidden:
		return wherrors.ErrForbidden
	case http.StatusNotFound:
		return wherrors.ErrNotFound
	case http.StatusTooManyRequests:
		return wherrors.ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return wherrors.ErrInternal
	}
	return nil
}

// MessageOf extracts text fit for a notification: the server message of an *Error,
// otherwise err's own text, otherwise fallback.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
