// Package httpx holds the JSON response envelope and helpers shared by all
// HTTP handlers. Every response body is {"success": bool, "data": ...} or
// {"success": false, "error": "..."}.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteSuccess writes a success envelope with the given status and payload.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope with the given status and message.
func WriteError(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Error: message})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Default().Error("Failed to encode response envelope", "error", err.Error())
	}
}

// DecodeJSON decodes a request body into dst with a size cap, rejecting
// unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
