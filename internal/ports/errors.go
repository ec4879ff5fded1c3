package ports

import (
	"errors"
	"fmt"
)

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	ErrUnknown            = errors.New("unknown error occurred")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("record was modified by another writer")
	ErrValidation         = errors.New("invalid input")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Database specific errors
	ErrDuplicateEntry = errors.New("database record already exists")
	ErrDBConnection   = errors.New("database connection error")
	ErrQueryFailed    = errors.New("database query failed")
	ErrUpdateFailed   = errors.New("database update failed")
	ErrDeleteFailed   = errors.New("database delete failed")

	// Sync specific errors
	ErrRemoteUnavailable = errors.New("remote sync endpoint is unavailable")
	ErrQuoteUnavailable  = errors.New("quote provider is unavailable")
)

// ValidationError is a recoverable, user-correctable input error. The UI
// layer is expected to surface Reason directly to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidation) work for all validation errors.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a field-level validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
