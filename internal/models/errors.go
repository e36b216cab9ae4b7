package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers.
var (
	// ErrInvalidIngredientData marks catalog data that cannot be priced
	// (zero or missing package quantity, non-numeric price). It is reported
	// separately from ValidationError because it points at corrupted records,
	// not at user input.
	ErrInvalidIngredientData = errors.New("invalid ingredient data")

	// ErrSuggestionFailed is returned when the suggestion collaborator fails
	// or produces nothing usable. It is never fatal.
	ErrSuggestionFailed = errors.New("recipe suggestion failed")
)

// ValidationError is a rejected user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
