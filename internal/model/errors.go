package model

import "fmt"

// ValidationError is a field-keyed input failure. It is surfaced to the
// client as a 400 with the offending field, never silently corrected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
