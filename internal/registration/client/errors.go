package client

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for backend calls.
type ErrorCategory string

const (
	// ErrorTimeout: the request deadline passed before a response arrived.
	ErrorTimeout ErrorCategory = "timeout"
	// ErrorTransport: no response at all (DNS, refused connection, reset).
	ErrorTransport ErrorCategory = "transport"
	// ErrorBadData: a 2xx response whose body could not be decoded.
	ErrorBadData ErrorCategory = "bad_data"
	// ErrorUnauthorized: the backend rejected the bearer token.
	ErrorUnauthorized ErrorCategory = "unauthorized"
	// ErrorHTTPStatus: any other non-2xx response.
	ErrorHTTPStatus ErrorCategory = "http_status"
)

const (
	msgTimeout = "request timed out"
	msgNetwork = "network error - please check your connection"
	msgBadData = "invalid response from server"
)

// APIError wraps a failed backend call.
//
// ServerMessage is the "message" field of the response body when the backend
// sent one; Message describes the transport-level failure.
type APIError struct {
	Category      ErrorCategory
	Method        string
	Path          string
	StatusCode    int
	ServerMessage string
	Message       string
	Underlying    error
}

func (e *APIError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s %s [%s]: %s: %v", e.Method, e.Path, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s %s [%s]: %s", e.Method, e.Path, e.Category, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Underlying
}

// UserMessage returns the most specific human-readable message available:
// the server's own message, else the transport message.
func (e *APIError) UserMessage() string {
	if e.ServerMessage != "" {
		return e.ServerMessage
	}
	return e.Message
}

// GetCategory extracts the category from err, or "" if err is not an APIError.
func GetCategory(err error) ErrorCategory {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Category
	}
	return ""
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	return GetCategory(err) == ErrorTimeout
}
