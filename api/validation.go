// Package api provides the HTTP layer of the reconciliation service.
package api

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-reconcile/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateQueryBatch reports the batch problems as field errors. An empty
// batch is valid and reconciles to an empty result.
func ValidateQueryBatch(batch *model.QueryBatch) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if batch == nil {
		result.AddError("queries", "Query batch is required")
		return result
	}

	for _, problem := range batch.Validate() {
		result.AddError(problem.Field, problem.Message)
	}

	return result
}

// ValidateExtendRequest checks that ids and property ids are not blank
func ValidateExtendRequest(req *model.ExtendRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req == nil {
		result.AddError("extend", "Extend request is required")
		return result
	}

	for i, id := range req.IDs {
		if strings.TrimSpace(id) == "" {
			result.AddError(fmt.Sprintf("extend.ids[%d]", i), "Entity id cannot be empty or whitespace-only")
		}
	}
	for i, p := range req.Properties {
		if strings.TrimSpace(p.ID) == "" {
			result.AddError(fmt.Sprintf("extend.properties[%d].id", i), "Property id is required")
		}
	}

	return result
}
