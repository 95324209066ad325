// Package http carries the JSON envelope and request helpers shared by all
// handlers. Success and failure both use one envelope shape so clients never
// branch on payload structure.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leaguehq/leaguehq-auth/internal/models"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload is the machine-readable half of a failure response.
type ErrorPayload struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
}

// RespondJSON writes a success envelope.
func RespondJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Message: message, Data: data})
}

// RespondError writes a failure envelope. Domain errors carry their own
// status and name; anything else is flattened to a plain 500 so internals
// never leak.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var authErr *models.AuthError
	if !errors.As(err, &authErr) {
		logger.Error("unhandled error reached the response writer", slog.String("error", err.Error()))
		authErr = models.ErrStorage.WithMessage("internal server error")
	}

	if authErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.String("name", authErr.Name), slog.String("error", authErr.Message))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.Status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success: false,
		Message: authErr.Message,
		Error:   &ErrorPayload{StatusCode: authErr.Status, Name: authErr.Name},
	})
}

// DecodeJSON reads a JSON body into dst with a size cap and strict fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return models.ErrBadRequest.WithMessage("malformed request body")
	}
	if dec.More() {
		return models.ErrBadRequest.WithMessage("request body must contain a single object")
	}
	return nil
}

// BearerToken extracts the credential from an Authorization header. Empty
// string means no usable bearer token was sent.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
