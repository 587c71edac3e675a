package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/services"
	"github.com/aminejml/permigo/internal/middleware"
	"github.com/aminejml/permigo/internal/pkg/helpers"
)

// StudentController serves the student's own profile, access state,
// calendar and device token
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// Me returns the authenticated student's full profile
// @Summary Get own profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.StudentProfileResponse}
// @Failure 404 {object} dto.ErrorResponse "Student profile not found"
// @Router /students/me [get]
func (c *StudentController) Me(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.studentService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(profile, "Profile retrieved"))
}

// AccessStatus resolves the student's current access state
// @Summary Get access status
// @Description Recomputes the access decision from the student's stored state
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.AccessStatusResponse}
// @Router /students/me/access [get]
func (c *StudentController) AccessStatus(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	status, err := c.studentService.GetAccessStatus(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(status, "Access status resolved"))
}

// Events lists the student's calendar
// @Summary List own events
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Router /students/me/events [get]
func (c *StudentController) Events(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	events, err := c.studentService.ListEvents(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(events, "Events retrieved"))
}

// UpdateFCMToken stores the device push token
// @Summary Update FCM token
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateFCMTokenRequest true "Device token"
// @Success 200 {object} dto.StructuredResponse
// @Router /students/me/fcm-token [put]
func (c *StudentController) UpdateFCMToken(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateFCMTokenRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.studentService.UpdateFCMToken(ctx.Request.Context(), userID, req.FCMToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Token updated"))
}
