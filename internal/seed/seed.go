package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/aminejml/permigo/internal/app/models"
	appRepos "github.com/aminejml/permigo/internal/app/repositories"
	"github.com/aminejml/permigo/internal/config"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
	"github.com/aminejml/permigo/internal/pkg/auth"
)

// CreateDefaultData provisions the platform admin account if it doesn't exist.
// Schools are created by the admin at runtime, so only the admin is seeded.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Identifier == "" || cfg.Admin.Password == "" {
		lgr.Warn().Msg("Admin credentials not configured, skipping admin seeding")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.IdentifierExists(ctx, cfg.Admin.Identifier)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	lgr.Info().Msg("Creating default admin user...")

	passwordHash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Name:         "Platform Administrator",
		Identifier:   cfg.Admin.Identifier,
		PasswordHash: passwordHash,
		Role:         appModels.RoleAdmin,
	}

	adminID, err := userRepo.CreateUser(ctx, admin)
	if err != nil {
		// A concurrent instance may have seeded the admin first
		if errors.Is(err, apperrors.ErrIdentifierExists) {
			lgr.Info().Msg("Admin user already exists, skipping creation")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}
