package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrComputation  = errors.New("computation error")
	ErrInvalidPrice = errors.New("invalid American price")
)

// ValidationError reports a caller parameter that was rejected before any
// calculation took place
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
