package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/services"
	"github.com/aminejml/permigo/internal/middleware"
	"github.com/aminejml/permigo/internal/pkg/helpers"
)

// AdminController covers platform administration
type AdminController struct {
	adminService *services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// CreateSchool provisions a school with its login account
// @Summary Create a school
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSchoolRequest true "School details"
// @Success 201 {object} dto.StructuredResponse{data=dto.AdminSchoolResponse}
// @Failure 409 {object} dto.ErrorResponse "Identifier already exists"
// @Router /admin/schools [post]
func (c *AdminController) CreateSchool(ctx *gin.Context) {
	var req dto.CreateSchoolRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	school, err := c.adminService.CreateSchool(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(school, "School created"))
}

// Schools lists every school
// @Summary List schools
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Router /admin/schools [get]
func (c *AdminController) Schools(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	schools, err := c.adminService.ListSchools(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(schools, "Schools retrieved"))
}

// Students lists every student
// @Summary List students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Router /admin/students [get]
func (c *AdminController) Students(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	students, err := c.adminService.ListStudents(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(students, "Students retrieved"))
}

// SetSchoolActive toggles whether a school can operate
// @Summary Enable or disable a school
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Param request body dto.SetSchoolActiveRequest true "Active flag"
// @Success 200 {object} dto.StructuredResponse
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /admin/schools/{id}/active [put]
func (c *AdminController) SetSchoolActive(ctx *gin.Context) {
	schoolID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetSchoolActiveRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.adminService.SetSchoolActive(ctx.Request.Context(), schoolID, *req.Active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "School updated"))
}

// VerifyPayment marks an independent student's offline payment as received
// @Summary Verify a student payment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.VerifyPaymentRequest true "Subscription type"
// @Success 200 {object} dto.StructuredResponse
// @Failure 400 {object} dto.ErrorResponse "Student is not independent"
// @Router /admin/students/{id}/verify-payment [post]
func (c *AdminController) VerifyPayment(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.adminService.VerifyPayment(ctx.Request.Context(), studentID, req.SubscriptionType); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Payment verified"))
}

// ExamStats builds the platform-wide exam report
// @Summary Platform exam statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.AdminExamStatsResponse}
// @Router /admin/exam-stats [get]
func (c *AdminController) ExamStats(ctx *gin.Context) {
	stats, err := c.adminService.GetExamStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(stats, "Exam statistics retrieved"))
}

// Stats aggregates platform-wide numbers
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.PlatformStatsResponse}
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.adminService.GetPlatformStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(stats, "Statistics retrieved"))
}
