package services

import (
	"fmt"
	"net/http"
)

// ===============================
// ERROR TYPES
// ===============================

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       "NOT_FOUND",
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       "CONFLICT",
		Message:    message,
		Code:       code,
		StatusCode: http.StatusConflict,
	}
}

// NewBusinessError creates a business logic error
func NewBusinessError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       "BUSINESS_ERROR",
		Message:    message,
		Code:       code,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{
		Type:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{
		Type:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewInternalError creates an internal server error. Storage failures are
// always wrapped through here so drivers never leak to the caller.
func NewInternalError(message string) *ServiceError {
	return &ServiceError{
		Type:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// WrapInternalError wraps an unexpected storage or infrastructure error,
// keeping the cause for logs while masking it from the response body.
func WrapInternalError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ===============================
// DOMAIN ERRORS
// ===============================

// Error codes used by the achievement engine.
const (
	CodeDuplicateName  = "DUPLICATE_NAME"
	CodeInvalidState   = "INVALID_STATE"
	CodeAlreadyAwarded = "ALREADY_AWARDED"
)

// NewDuplicateNameError signals a collision with an existing achievement name.
func NewDuplicateNameError(name string) *ServiceError {
	err := NewConflictError(fmt.Sprintf("an achievement named %q already exists", name), CodeDuplicateName)
	err.Details = map[string]interface{}{"name": name}
	return err
}

// NewInvalidStateError signals an operation against a record whose lifecycle
// state forbids it, e.g. awarding a soft-deleted achievement.
func NewInvalidStateError(message string) *ServiceError {
	return NewBusinessError(message, CodeInvalidState)
}

// NewAlreadyAwardedError signals a duplicate badge grant attempt.
func NewAlreadyAwardedError(badge string) *ServiceError {
	err := NewConflictError("achievement already awarded to this user", CodeAlreadyAwarded)
	err.Details = map[string]interface{}{"badge": badge}
	return err
}

// ===============================
// ERROR UTILITIES
// ===============================

// GetServiceError extracts a ServiceError from an error, or creates a generic one
func GetServiceError(err error) *ServiceError {
	if serviceErr, ok := err.(*ServiceError); ok {
		return serviceErr
	}
	return NewInternalError(err.Error())
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.Type == errorType
	}
	return false
}

// IsErrorCode checks if an error carries a specific domain code
func IsErrorCode(err error, code string) bool {
	if serviceErr, ok := err.(*ServiceError); ok {
		return serviceErr.Code == code
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return IsErrorType(err, "NOT_FOUND")
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsErrorType(err, "VALIDATION_ERROR")
}

// IsDuplicateNameError checks if an error is a duplicate achievement name error
func IsDuplicateNameError(err error) bool {
	return IsErrorCode(err, CodeDuplicateName)
}

// IsInvalidStateError checks if an error is a lifecycle state error
func IsInvalidStateError(err error) bool {
	return IsErrorCode(err, CodeInvalidState)
}

// IsAlreadyAwardedError checks if an error is a duplicate award error
func IsAlreadyAwardedError(err error) bool {
	return IsErrorCode(err, CodeAlreadyAwarded)
}
