package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/services"
	"github.com/aminejml/permigo/internal/middleware"
)

// OnboardingController drives the access-method choice and school linkage
type OnboardingController struct {
	onboardingService *services.OnboardingService
}

// NewOnboardingController creates a new OnboardingController
func NewOnboardingController(onboardingService *services.OnboardingService) *OnboardingController {
	return &OnboardingController{
		onboardingService: onboardingService,
	}
}

// ChooseMethod records the student's access-method choice
// @Summary Choose access method
// @Description Commits the student to independent payment or school sponsorship
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChooseAccessMethodRequest true "Access method choice"
// @Success 200 {object} dto.StructuredResponse{data=dto.AccessStatusResponse}
// @Failure 403 {object} dto.ErrorResponse "Access method cannot be changed"
// @Router /onboarding/access-method [post]
func (c *OnboardingController) ChooseMethod(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.ChooseAccessMethodRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	status, err := c.onboardingService.ChooseAccessMethod(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(status, "Access method recorded"))
}

// LinkSchool attaches the student to a school for approval
// @Summary Link to a school
// @Description Opens a pending sponsorship request with the chosen school
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LinkSchoolRequest true "School to link to"
// @Success 200 {object} dto.StructuredResponse{data=dto.AccessStatusResponse}
// @Failure 400 {object} dto.ErrorResponse "Wrong access method"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /onboarding/school [post]
func (c *OnboardingController) LinkSchool(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.LinkSchoolRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	status, err := c.onboardingService.LinkSchool(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(status, "School request submitted"))
}

// ChangeMethod resets the student back to method selection
// @Summary Change access method
// @Description Allowed only while the current method has not committed
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.AccessStatusResponse}
// @Failure 403 {object} dto.ErrorResponse "Access method cannot be changed"
// @Router /onboarding/access-method [delete]
func (c *OnboardingController) ChangeMethod(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	status, err := c.onboardingService.ChangeAccessMethod(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(status, "Access method reset"))
}

// RequestStatus reports the student's latest school linkage request
// @Summary School request status
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.SchoolRequestStatusResponse}
// @Failure 404 {object} dto.ErrorResponse "No school request found"
// @Router /onboarding/school-request [get]
func (c *OnboardingController) RequestStatus(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	status, err := c.onboardingService.GetSchoolRequestStatus(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(status, "Request status retrieved"))
}

// Schools lists the active school directory
// @Summary List schools
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]dto.SchoolSummaryResponse}
// @Router /onboarding/schools [get]
func (c *OnboardingController) Schools(ctx *gin.Context) {
	schools, err := c.onboardingService.ListSchools(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(schools, "Schools retrieved"))
}
