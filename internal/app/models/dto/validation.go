package dto

import (
	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts validator errors into an ErrorDetail with
// one entry per failing field
func HandleValidationError(err error) *ErrorDetail {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(err.Error())
	}

	details := NewValidationErrors()
	for _, fieldErr := range validationErrors {
		details.AddError(fieldErr.Field(), formatFieldError(fieldErr))
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(details.Errors)
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
