package service

import "errors"

// Sentinel errors distinguish the caller-correctable failure classes from
// opaque internal ones.
var (
	// ErrNotFound signals a well-formed request for an id that does not exist
	ErrNotFound = errors.New("not found")

	// ErrNoTemplate signals a document render with no resolvable template:
	// neither an explicit invoice template nor a default for the type
	ErrNoTemplate = errors.New("no template available")
)

// ValidationError reports a client-correctable input problem, surfaced before
// any persistence attempt
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
