package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnknownPropertyError(t *testing.T) {
	err := NewUnknownPropertyError("P99")

	expectedMsg := "property 'P99' is not defined in the catalog"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrUnknownProperty) {
		t.Error("Expected error to match ErrUnknownProperty sentinel")
	}

	if errors.Is(err, ErrRecordFetch) {
		t.Error("Error should not match ErrRecordFetch")
	}
}

func TestRecordFetchError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewRecordFetchError("1042", cause)

	expectedMsg := "failed to fetch record '1042': connection refused"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrRecordFetch) {
		t.Error("Expected error to match ErrRecordFetch sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}

	bare := NewRecordFetchError("7", nil)
	if bare.Error() != "failed to fetch record '7'" {
		t.Errorf("Unexpected message without cause: %s", bare.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("queries", "must be a JSON object")

	expectedMsg := "validation error for field 'queries': must be a JSON object"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}

	noField := NewValidationError("", "empty batch")
	if noField.Error() != "validation error: empty batch" {
		t.Errorf("Unexpected message without field: %s", noField.Error())
	}
}

func TestErrorWrapping(t *testing.T) {
	original := NewUnknownPropertyError("P1")
	wrapped := fmt.Errorf("query q0: %w", original)

	if !errors.Is(wrapped, ErrUnknownProperty) {
		t.Error("Expected wrapped error to match ErrUnknownProperty sentinel")
	}

	var propErr *UnknownPropertyError
	if !errors.As(wrapped, &propErr) {
		t.Fatal("Expected errors.As to find UnknownPropertyError")
	}
	if propErr.PropertyID != "P1" {
		t.Errorf("Expected property id 'P1', got '%s'", propErr.PropertyID)
	}
}
