// Package httputil writes the JSON envelopes the admissions API uses.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxRequestBody = 1 << 20

// Common error codes carried in the envelope's "error" field.
const (
	CodeBadRequest   = "bad_request"
	CodeValidation   = "validation_failed"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeRateLimited  = "rate_limited"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal_error"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"success":false,"message":...,"error":code}. Internal
// errors never carry the underlying message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	if status >= http.StatusInternalServerError {
		message = "Something went wrong. Please try again later."
	}
	WriteJSON(w, status, errorEnvelope{Success: false, Message: message, Error: code})
}

// DecodeJSON reads a single JSON object from r into dst, rejecting unknown
// trailing data and bodies over 1 MiB.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
