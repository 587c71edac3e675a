package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
	"github.com/aminejml/permigo/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses.
// CustomError messages override the default text for their sentinel.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := ""
	if errors.As(err, &customErr) {
		message = customErr.Message
	}

	respond := func(status int, code dto.ErrorCode, defaultMessage string) {
		if message == "" {
			message = defaultMessage
		}
		c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid identifier or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrAccessDenied):
		respond(http.StatusForbidden, dto.ErrorCodeAccessDenied, "Access denied")
	case errors.Is(err, apperrors.ErrFullAccessRequired):
		respond(http.StatusForbidden, dto.ErrorCodeAccessDenied, "Full access required")
	case errors.Is(err, apperrors.ErrAccessMethodLocked):
		respond(http.StatusForbidden, dto.ErrorCodeMethodLocked, "Access method cannot be changed")
	case errors.Is(err, apperrors.ErrNotSchoolAccount):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "School account required")
	case errors.Is(err, apperrors.ErrStudentNotInSchool):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "Student is not attached to this school")

	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrSchoolNotFound),
		errors.Is(err, apperrors.ErrExamSessionNotFound),
		errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrNoSchoolRequest),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")

	case errors.Is(err, apperrors.ErrIdentifierExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Identifier already exists")
	case errors.Is(err, apperrors.ErrExamAlreadyScored):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Exam session already completed")
	case errors.Is(err, apperrors.ErrConflict):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Conflict")

	case errors.Is(err, apperrors.ErrWrongAccessMethod):
		respond(http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Operation not allowed for current access method")
	case errors.Is(err, apperrors.ErrOnboardingIncomplete):
		respond(http.StatusBadRequest, dto.ErrorCodeOnboardingRequired, "Complete onboarding first")
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Bad request")

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
