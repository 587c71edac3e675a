package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/repositories"
	"github.com/aminejml/permigo/internal/db"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
	"github.com/aminejml/permigo/internal/pkg/auth"
	"github.com/aminejml/permigo/internal/pkg/logger"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo    *repositories.UserRepository
	studentRepo *repositories.StudentRepository
	database    *db.PostgresDB
	jwtService  *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	studentRepo *repositories.StudentRepository,
	database *db.PostgresDB,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		database:    database,
		jwtService:  jwtService,
	}
}

// RegisterStudent creates a student account with its login user in one
// transaction and signs the new user in
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	exists, err := s.userRepo.IdentifierExists(ctx, req.Identifier)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrIdentifierExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Identifier:   req.Identifier,
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.userRepo.CreateUserTx(ctx, tx, user)
		if err != nil {
			return err
		}
		user.ID = userID

		if _, err := s.studentRepo.CreateStudentTx(ctx, tx, userID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Msg("Student registered")

	return s.issueTokens(ctx, user)
}

// Login authenticates by identifier and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The stored
// digest rotates with every exchange, so each refresh token works once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetUserByRefreshTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	if user.RefreshTokenExpiresAt == nil || user.RefreshTokenExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates the user's refresh token
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

// ChangePassword verifies the current password and replaces it.
// The refresh token is cleared so other devices have to log in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}

	logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	err = s.userRepo.StoreRefreshToken(ctx, user.ID,
		auth.HashRefreshToken(refreshToken), s.jwtService.GetRefreshTokenExpiry())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             int64(expiresIn),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: int64(refreshExpiresIn),
		},
		User: dto.UserResponse{
			ID:         user.ID,
			Name:       user.Name,
			Identifier: user.Identifier,
			Role:       string(user.Role),
		},
	}, nil
}
