package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrIdentifierExists = errors.New("identifier already exists")
)

// Student errors
var (
	ErrStudentNotFound      = errors.New("student profile not found")
	ErrAccessMethodLocked   = errors.New("access method cannot be changed")
	ErrWrongAccessMethod    = errors.New("operation not allowed for current access method")
	ErrOnboardingIncomplete = errors.New("onboarding not complete")
	ErrFullAccessRequired   = errors.New("full access required")
	ErrAccessDenied         = errors.New("access denied")
	ErrNoSchoolRequest      = errors.New("no school request found")
	ErrStudentNotInSchool   = errors.New("student not attached to this school")
)

// School errors
var (
	ErrSchoolNotFound   = errors.New("school not found")
	ErrNotSchoolAccount = errors.New("not a school account")
)

// Exam errors
var (
	ErrExamSessionNotFound = errors.New("exam session not found")
	ErrExamAlreadyScored   = errors.New("exam session already completed")
	ErrEventNotFound       = errors.New("event not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
