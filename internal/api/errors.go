package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned by typed endpoints when the server rejected the session.
// The session has already been cleared and the navigator sent to login; callers must stop.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-success response other than 401
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d %s", e.Status, http.StatusText(e.Status))
}

// TransportError wraps a network-level failure (DNS, refused connection, reset)
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a network-level failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// newAPIError builds an APIError from an error body shaped like {"detail": ...}.
// Validation errors carry a list as detail; those are kept as raw JSON text.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}
	if raw := strings.TrimSpace(string(payload.Detail)); raw != "null" {
		apiErr.Detail = raw
	}
	return apiErr
}
