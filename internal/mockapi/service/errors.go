package service

import "errors"

// ErrorKind maps to an HTTP status in the handler.
type ErrorKind string

const (
	KindInvalid     ErrorKind = "invalid"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindRateLimited ErrorKind = "rate_limited"
	KindUnprocessed ErrorKind = "unprocessable"
)

// Error is a request the backend refuses outright. Message is sent to the
// client verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of a service error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
