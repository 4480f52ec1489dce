package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrUnknownProperty is returned when a property id is not in the catalog
	ErrUnknownProperty = errors.New("unknown property")

	// ErrRecordFetch is returned when a gazetteer record could not be retrieved
	ErrRecordFetch = errors.New("record fetch failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// UnknownPropertyError represents a property id that the catalog does not define.
// It signals a mismatch between the client and the configured catalog.
type UnknownPropertyError struct {
	PropertyID string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("property '%s' is not defined in the catalog", e.PropertyID)
}

func (e *UnknownPropertyError) Is(target error) bool {
	return target == ErrUnknownProperty
}

// NewUnknownPropertyError creates a new UnknownPropertyError
func NewUnknownPropertyError(propertyID string) *UnknownPropertyError {
	return &UnknownPropertyError{PropertyID: propertyID}
}

// RecordFetchError represents a failed record lookup for a candidate entity
type RecordFetchError struct {
	EntityID string
	Err      error
}

func (e *RecordFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch record '%s': %v", e.EntityID, e.Err)
	}
	return fmt.Sprintf("failed to fetch record '%s'", e.EntityID)
}

func (e *RecordFetchError) Is(target error) bool {
	return target == ErrRecordFetch
}

func (e *RecordFetchError) Unwrap() error {
	return e.Err
}

// NewRecordFetchError creates a new RecordFetchError
func NewRecordFetchError(entityID string, err error) *RecordFetchError {
	return &RecordFetchError{EntityID: entityID, Err: err}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
