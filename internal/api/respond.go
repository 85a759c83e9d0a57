// Package api carries the JSON envelope and request decoding shared by
// every HTTP handler.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response shape: {"success": bool, "message"?, "data"?}.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a 200 envelope with optional payload.
func Success(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// SuccessMessage writes a 200 envelope carrying a human-readable outcome.
func SuccessMessage(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a 200 envelope reporting an unsuccessful outcome with detail.
func Fail(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, Envelope{Success: false, Message: message, Data: data})
}

// Error writes a failure envelope with the given HTTP status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// Decode parses a JSON request body into v. Unknown fields are rejected at
// the boundary instead of surfacing as misshaped data deep in a service.
func Decode(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
