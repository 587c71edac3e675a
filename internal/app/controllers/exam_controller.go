package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/services"
	"github.com/aminejml/permigo/internal/middleware"
	"github.com/aminejml/permigo/internal/pkg/helpers"
)

// ExamController runs blank exam attempts for students
type ExamController struct {
	examService *services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService *services.ExamService) *ExamController {
	return &ExamController{
		examService: examService,
	}
}

// Start opens a new exam session with a random sheet
// @Summary Start an exam
// @Description Draws a random 30-question sheet and opens a session
// @Tags exam
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.StructuredResponse{data=dto.StartExamResponse}
// @Failure 403 {object} dto.ErrorResponse "Full access required"
// @Router /exams [post]
func (c *ExamController) Start(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	response, err := c.examService.StartExam(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(response, "Exam started"))
}

// Submit grades an exam session
// @Summary Submit an exam
// @Description Grades the answer sheet and finalizes the session exactly once
// @Tags exam
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam session ID"
// @Param request body dto.SubmitExamRequest true "Answer sheet"
// @Success 200 {object} dto.StructuredResponse{data=dto.ExamResultResponse}
// @Failure 404 {object} dto.ErrorResponse "Exam session not found"
// @Failure 409 {object} dto.ErrorResponse "Exam session already completed"
// @Router /exams/{id}/submit [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	sessionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitExamRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.examService.SubmitExam(ctx.Request.Context(), userID, sessionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(result, "Exam graded"))
}

// History lists the student's past attempts
// @Summary Exam history
// @Tags exam
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse}
// @Router /exams [get]
func (c *ExamController) History(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	history, err := c.examService.GetHistory(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(history, "History retrieved"))
}

// Detail returns the graded answer sheet of a completed session
// @Summary Exam session detail
// @Tags exam
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam session ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.ExamSessionDetailResponse}
// @Failure 404 {object} dto.ErrorResponse "Exam session not found"
// @Router /exams/{id} [get]
func (c *ExamController) Detail(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	sessionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.examService.GetSessionDetail(ctx.Request.Context(), userID, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(detail, "Session retrieved"))
}
