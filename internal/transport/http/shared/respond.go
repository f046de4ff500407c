// Package shared centralizes JSON response envelopes so every handler
// translates domain errors the same way.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "campustrust/pkg/domain-errors"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError translates a domain error into its HTTP status and envelope.
// Non-domain errors become opaque 500s.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.DomainError
	if errors.As(err, &de) {
		WriteJSON(w, dErrors.ToHTTPStatus(de.Code), ErrorResponse{
			Error:   string(de.Code),
			Message: de.Message,
		})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: string(dErrors.CodeInternal),
	})
}
