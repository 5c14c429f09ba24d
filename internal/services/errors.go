// internal/services/errors.go
package services

import "errors"

// Sentinel errors mapped onto the wire taxonomy by the handlers:
// ErrNotFound -> 404, the conflict family -> 409, ValidationError -> 400,
// ErrInvalidCredentials -> 401. Everything else is a 500.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyApplied     = errors.New("You have already applied for this grant")
	ErrAlreadySubmitted   = errors.New("This application has already been submitted")
	ErrEmailTaken         = errors.New("This email already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// ValidationError is a user-correctable failure; the message is surfaced
// verbatim and the operation is never retried automatically.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
