// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/services"
	"github.com/aminejml/permigo/internal/middleware"
	"github.com/aminejml/permigo/internal/pkg/logger"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles student self-registration
// @Summary Register a new student
// @Description Creates a student account and signs the new user in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration information"
// @Success 201 {object} dto.StructuredResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Identifier already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	response, err := c.authService.RegisterStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(response, "Registration successful"))
}

// Login handles credential authentication
// @Summary Log in
// @Description Authenticates by identifier and password and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.StructuredResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	response, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		logger.Warn().Err(err).Str("identifier", req.Identifier).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(response, "Login successful"))
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Rotates the refresh token and issues a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.StructuredResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	response, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(response, "Token refreshed"))
}

// ChangePassword replaces the caller's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.StructuredResponse
// @Failure 401 {object} dto.ErrorResponse "Current password is wrong"
// @Router /auth/change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Password changed"))
}

// Logout invalidates the caller's refresh token
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Logged out"))
}
