package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-reconcile/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeUnknownProperty  ErrorCode = "UNKNOWN_PROPERTY"
	ErrorCodeRequestTooLarge  ErrorCode = "REQUEST_TOO_LARGE"
	ErrorCodeRequestCancelled ErrorCode = "REQUEST_CANCELLED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError        ErrorCode = "INTERNAL_ERROR"
	ErrorCodeGazetteerUnavailable ErrorCode = "GAZETTEER_UNAVAILABLE"
	ErrorCodeGazetteerTimeout     ErrorCode = "GAZETTEER_TIMEOUT"
)

// statusClientClosedRequest is the de facto status for requests the client abandoned
const statusClientClosedRequest = 499

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	// Add request ID if available
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	respond(c, statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidJSONError sends a standardized invalid JSON error for a form field
func SendInvalidJSONError(c *gin.Context, field string, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in '"+field+"': "+err.Error(),
		ErrorDetail{Field: field, Message: err.Error()})
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendServiceError maps errors returned by the reconciliation service to responses
func SendServiceError(c *gin.Context, operation string, err error) {
	var unknownProperty *internalErrors.UnknownPropertyError
	var validation *internalErrors.ValidationError
	var fetch *internalErrors.RecordFetchError

	switch {
	case errors.As(err, &unknownProperty):
		SendError(c, http.StatusBadRequest, ErrorCodeUnknownProperty, err.Error(),
			ErrorDetail{Field: "pid", Message: "Unknown property '" + unknownProperty.PropertyID + "'"})
	case errors.As(err, &validation):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed",
			ErrorDetail{Field: validation.Field, Message: validation.Message, Code: "VALIDATION_ERROR"})
	case errors.Is(err, context.DeadlineExceeded):
		SendError(c, http.StatusGatewayTimeout, ErrorCodeGazetteerTimeout,
			"Gazetteer did not answer in time during "+operation)
	case errors.As(err, &fetch):
		SendError(c, http.StatusBadGateway, ErrorCodeGazetteerUnavailable, err.Error(),
			ErrorDetail{Field: "id", Message: "Record '" + fetch.EntityID + "' could not be fetched"})
	case errors.Is(err, context.Canceled):
		SendError(c, statusClientClosedRequest, ErrorCodeRequestCancelled, operation+" was cancelled")
	default:
		SendInternalError(c, operation, err)
	}
}
