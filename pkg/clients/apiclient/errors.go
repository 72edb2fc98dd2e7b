package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorBody is the unified error document returned by the backend
type ErrorBody struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// APIError describes a failed call to the backend
type APIError struct {
	Message    string
	StatusCode int
	Method     string
	URL        string
	Body       string
	Cause      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsTransport reports whether the call never got an HTTP response (network failure, timeout)
func (e *APIError) IsTransport() bool {
	return e.StatusCode == 0
}

// IsStatus reports whether err is an APIError carrying the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsTransport reports whether err is an APIError raised before any response was received
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsTransport()
}

// errorMessage extracts the backend's message from an error body, falling back to the HTTP status text
func errorMessage(body []byte, status string) string {
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		return eb.Message
	}
	return status
}
