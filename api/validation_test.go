package api

import (
	"testing"

	"github.com/gcbaptista/go-reconcile/model"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}

	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(result.Errors))
	}

	if result.Errors[0].Field != "field1" {
		t.Errorf("Expected field 'field1', got '%s'", result.Errors[0].Field)
	}

	if result.Errors[0].Message != "error message" {
		t.Errorf("Expected message 'error message', got '%s'", result.Errors[0].Message)
	}
}

func TestValidationResult_HasErrors(t *testing.T) {
	result := &ValidationResult{Valid: true}

	if result.HasErrors() {
		t.Error("Expected HasErrors to be false for empty result")
	}

	result.AddError("field", "message")

	if !result.HasErrors() {
		t.Error("Expected HasErrors to be true after adding error")
	}
}

func TestValidateQueryBatch(t *testing.T) {
	tests := []struct {
		name       string
		batch      *model.QueryBatch
		wantValid  bool
		wantFields []string
	}{
		{
			name:       "nil batch",
			batch:      nil,
			wantValid:  false,
			wantFields: []string{"queries"},
		},
		{
			name:      "empty batch",
			batch:     model.NewQueryBatch(),
			wantValid: true,
		},
		{
			name: "valid batch",
			batch: batchWith(
				"q0", model.Query{Text: "Vilna"},
				"q1", model.Query{Text: "Safed", Properties: []model.PropertyConstraint{{PropertyID: "P6", Value: "IL"}}},
			),
			wantValid: true,
		},
		{
			name:       "blank query text",
			batch:      batchWith("q0", model.Query{Text: " "}),
			wantValid:  false,
			wantFields: []string{"queries.q0.query"},
		},
		{
			name: "missing pid",
			batch: batchWith("q0", model.Query{
				Text:       "Safed",
				Properties: []model.PropertyConstraint{{PropertyID: "P6"}, {Value: "IL"}},
			}),
			wantValid:  false,
			wantFields: []string{"queries.q0.properties[1].pid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateQueryBatch(tt.batch)

			if result.Valid != tt.wantValid {
				t.Errorf("Expected Valid %v, got %v (%v)", tt.wantValid, result.Valid, result.Errors)
			}
			if len(result.Errors) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantFields), len(result.Errors), result.Errors)
			}
			for i, field := range tt.wantFields {
				if result.Errors[i].Field != field {
					t.Errorf("Expected error field '%s', got '%s'", field, result.Errors[i].Field)
				}
			}
		})
	}
}

func TestValidateExtendRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        *model.ExtendRequest
		wantFields []string
	}{
		{
			name:       "nil request",
			req:        nil,
			wantFields: []string{"extend"},
		},
		{
			name: "valid request",
			req: &model.ExtendRequest{
				IDs:        []string{"101", "102"},
				Properties: []model.PropertyRef{{ID: "P6"}},
			},
		},
		{
			name: "empty lists are allowed",
			req:  &model.ExtendRequest{},
		},
		{
			name: "blank ids",
			req: &model.ExtendRequest{
				IDs:        []string{"101", ""},
				Properties: []model.PropertyRef{{ID: " "}},
			},
			wantFields: []string{"extend.ids[1]", "extend.properties[0].id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateExtendRequest(tt.req)

			if result.HasErrors() != (len(tt.wantFields) > 0) {
				t.Errorf("Unexpected validation outcome: %v", result.Errors)
			}
			if len(result.Errors) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantFields), len(result.Errors), result.Errors)
			}
			for i, field := range tt.wantFields {
				if result.Errors[i].Field != field {
					t.Errorf("Expected error field '%s', got '%s'", field, result.Errors[i].Field)
				}
			}
		})
	}
}

// batchWith builds a batch from alternating key and query arguments
func batchWith(pairs ...any) *model.QueryBatch {
	batch := model.NewQueryBatch()
	for i := 0; i+1 < len(pairs); i += 2 {
		batch.Add(pairs[i].(string), pairs[i+1].(model.Query))
	}
	return batch
}
