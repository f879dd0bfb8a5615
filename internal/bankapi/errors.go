package bankapi

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	msgUnavailable   = "Service temporarily unavailable"
	msgInvalidFormat = "Invalid response format from server"
)

// Error is the single failure shape the client returns. Message is always
// fit for display; Err carries the underlying transport or decode cause.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Client reports whether the service rejected the request itself (4xx).
func (e *Error) Client() bool { return e.Status >= 400 && e.Status < 500 }

// Message reduces any error to a display string. Client errors keep their
// message, other errors use their text, and fallback covers the empty case.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// serverMessage extracts the error or message field of an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{payload.Error, payload.Message} {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
