package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/services"
	"github.com/aminejml/permigo/internal/middleware"
	"github.com/aminejml/permigo/internal/pkg/helpers"
)

// SchoolController serves school accounts
type SchoolController struct {
	schoolService *services.SchoolService
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService *services.SchoolService) *SchoolController {
	return &SchoolController{
		schoolService: schoolService,
	}
}

// Dashboard aggregates the school's headline numbers
// @Summary School dashboard
// @Tags school
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.SchoolDashboardResponse}
// @Router /school/dashboard [get]
func (c *SchoolController) Dashboard(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	dashboard, err := c.schoolService.GetDashboard(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dashboard, "Dashboard retrieved"))
}

// Students lists the school's students, optionally by approval status
// @Summary List school students
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by approval status" Enums(pending, approved, rejected)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Router /school/students [get]
func (c *SchoolController) Students(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var status *models.ApprovalStatus
	switch s := ctx.Query("status"); s {
	case "":
	case string(models.ApprovalPending), string(models.ApprovalApproved), string(models.ApprovalRejected):
		value := models.ApprovalStatus(s)
		status = &value
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status filter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	students, err := c.schoolService.ListStudents(ctx.Request.Context(), userID, status, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(students, "Students retrieved"))
}

// Approve accepts a pending student request
// @Summary Approve a student
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 409 {object} dto.ErrorResponse "Request is not pending"
// @Router /school/students/{id}/approve [post]
func (c *SchoolController) Approve(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.schoolService.ApproveStudent(ctx.Request.Context(), userID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Student approved"))
}

// Reject declines a pending student request
// @Summary Reject a student
// @Tags school
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.RejectStudentRequest false "Optional rejection reason"
// @Success 200 {object} dto.StructuredResponse
// @Failure 409 {object} dto.ErrorResponse "Request is not pending"
// @Router /school/students/{id}/reject [post]
func (c *SchoolController) Reject(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RejectStudentRequest
	if ctx.Request.ContentLength > 0 {
		if !middleware.BindAndValidate(ctx, &req) {
			return
		}
	}

	if err := c.schoolService.RejectStudent(ctx.Request.Context(), userID, studentID, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Student rejected"))
}

// Activate settles an approved student's activation
// @Summary Activate a student
// @Description Opens the paid window, writes the ledger row and moves the school counters in one transaction
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.ActivateStudentResponse}
// @Failure 409 {object} dto.ErrorResponse "Student is not approved or already activated"
// @Router /school/students/{id}/activate [post]
func (c *SchoolController) Activate(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.schoolService.ActivateStudent(ctx.Request.Context(), userID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(response, "Student activated"))
}

// Revenue lists the school's activation ledger
// @Summary School revenue
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Router /school/revenue [get]
func (c *SchoolController) Revenue(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	revenue, err := c.schoolService.ListRevenue(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(revenue, "Revenue retrieved"))
}

// ExamStats builds the school's exam performance report
// @Summary School exam statistics
// @Tags school
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.SchoolExamStatsResponse}
// @Router /school/exam-stats [get]
func (c *SchoolController) ExamStats(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.schoolService.GetExamStats(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(stats, "Exam statistics retrieved"))
}

// StudentExams lists one student's finished attempts
// @Summary List a student's exams
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Failure 403 {object} dto.ErrorResponse "Student is not attached to this school"
// @Router /school/students/{id}/exams [get]
func (c *SchoolController) StudentExams(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	exams, err := c.schoolService.ListStudentExams(ctx.Request.Context(), userID, studentID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(exams, "Exams retrieved"))
}

// StudentExamDetail returns a student's graded answer sheet
// @Summary Review a student's exam
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param examId path int true "Exam session ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.ExamSessionDetailResponse}
// @Failure 403 {object} dto.ErrorResponse "Student is not attached to this school"
// @Router /school/students/{id}/exams/{examId} [get]
func (c *SchoolController) StudentExamDetail(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	sessionID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	detail, err := c.schoolService.GetStudentExamDetail(ctx.Request.Context(), userID, studentID, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(detail, "Exam detail retrieved"))
}

// Detach severs the linkage between the school and one of its students
// @Summary Detach a student
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 403 {object} dto.ErrorResponse "Student is not attached to this school"
// @Router /school/students/{id}/detach [post]
func (c *SchoolController) Detach(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.schoolService.DetachStudent(ctx.Request.Context(), userID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Student detached"))
}

// CreateEvent schedules a calendar entry for one of the school's students
// @Summary Create a student event
// @Tags school
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.StructuredResponse{data=dto.StudentEventResponse}
// @Failure 403 {object} dto.ErrorResponse "Student is not attached to this school"
// @Router /school/events [post]
func (c *SchoolController) CreateEvent(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	event, err := c.schoolService.CreateEvent(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(event, "Event created"))
}

// DeleteEvent removes a scheduled event
// @Summary Delete a student event
// @Tags school
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /school/events/{id} [delete]
func (c *SchoolController) DeleteEvent(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.schoolService.DeleteEvent(ctx.Request.Context(), userID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Event deleted"))
}
