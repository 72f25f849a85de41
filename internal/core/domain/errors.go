package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
)

// Client-facing messages rendered in the envelope's error field.
const (
	MsgUnauthenticated    = "Authentication required"
	MsgForbidden          = "Insufficient permissions"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInternal           = "Internal server error"
)

// ValidationError is a field-scoped input failure detected before any
// upstream call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
