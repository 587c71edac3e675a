package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/access"
	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/repositories"
)

// AccessMiddleware gates premium content behind the resolved access state
type AccessMiddleware struct {
	studentRepo *repositories.StudentRepository
}

// NewAccessMiddleware creates a new AccessMiddleware
func NewAccessMiddleware(studentRepo *repositories.StudentRepository) *AccessMiddleware {
	return &AccessMiddleware{
		studentRepo: studentRepo,
	}
}

// RequireFullAccess recomputes the caller's access state on every request.
// The stored access_level column is a cache; the resolver is the authority.
func (m *AccessMiddleware) RequireFullAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		student, err := m.studentRepo.GetStudentByUserID(c.Request.Context(), userID)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Student profile required")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		result := access.Calculate(student, time.Now())
		if result.AccessLevel != models.AccessFull {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeAccessDenied, "Full access required").
				WithDetails(gin.H{
					"reason":     string(result.Reason),
					"redirectTo": result.RedirectTo,
					"message":    result.Message,
				})
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
