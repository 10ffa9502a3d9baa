package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired marks a 401 received outside the auth endpoints.
// The client has already torn the session down by the time a caller
// sees this error; the UI reacts by returning to the login view.
var ErrSessionExpired = errors.New("session expired")

// Kind categorizes backend failures for local handling.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindForbidden
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// APIError is a categorized backend failure. Message carries the
// backend-provided text when the payload had one.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api returned status %d (%s)", e.Status, e.Kind)
}

// kindForStatus maps an HTTP status to an error category. 401 is not
// mapped here: the session guard middleware decides between AuthError
// and session expiry based on the request path.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindUnknown
	}
}

// ErrorMessage extracts a human-readable message from err, falling back
// to the given default. Views use this for their inline error state.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}
