package models

import "net/http"

// AuthError is the domain error type shared by every component. Each value
// carries a stable machine-readable name and the HTTP status it maps to, so
// handlers never guess at status codes and raw storage errors never reach
// callers.
type AuthError struct {
	Name    string
	Message string
	Status  int
}

func (e *AuthError) Error() string { return e.Message }

// Is matches on Name so WithMessage copies still compare equal to their
// sentinel under errors.Is.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Name == e.Name
}

// WithMessage returns a copy of the error carrying a caller-supplied message.
func (e *AuthError) WithMessage(msg string) *AuthError {
	return &AuthError{Name: e.Name, Message: msg, Status: e.Status}
}

// Domain error taxonomy
var (
	ErrValidation         = &AuthError{Name: "validation_error", Message: "invalid input", Status: http.StatusUnprocessableEntity}
	ErrBadRequest         = &AuthError{Name: "bad_request", Message: "bad request", Status: http.StatusBadRequest}
	ErrNotFound           = &AuthError{Name: "not_found", Message: "resource not found", Status: http.StatusNotFound}
	ErrDuplicate          = &AuthError{Name: "duplicate", Message: "resource already exists", Status: http.StatusUnprocessableEntity}
	ErrInvalidCredentials = &AuthError{Name: "invalid_credentials", Message: "invalid credentials", Status: http.StatusUnauthorized}
	ErrAccountBlocked     = &AuthError{Name: "account_blocked", Message: "user temporarily blocked", Status: http.StatusConflict}
	ErrInvalidToken       = &AuthError{Name: "invalid_token", Message: "invalid or expired token", Status: http.StatusUnauthorized}
	ErrStorage            = &AuthError{Name: "storage_error", Message: "storage error", Status: http.StatusInternalServerError}
)
