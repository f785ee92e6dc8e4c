package services

import "errors"

// Failure taxonomy for lifecycle operations. Controllers translate these
// to HTTP statuses; nothing below this package knows about HTTP.
var (
	ErrNotFound          = errors.New("request not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidWorker     = errors.New("invalid worker ID or user is not a worker")
)

// ValidationError reports missing or malformed input, or an unmet
// business-rule precondition. Detected before any write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
