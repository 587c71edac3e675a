package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
	"github.com/aminejml/permigo/internal/pkg/dberrors"
	"github.com/aminejml/permigo/internal/pkg/logger"
)

const userColumns = "id, name, identifier, password_hash, role, refresh_token_hash, refresh_token_expires_at, created_at, updated_at"

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Identifier, &user.PasswordHash, &user.Role,
		&user.RefreshTokenHash, &user.RefreshTokenExpiresAt,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user and returns its ID
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("name", "identifier", "password_hash", "role").
		Values(user.Name, user.Identifier, user.PasswordHash, user.Role).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_identifier_key") {
			return 0, apperrors.ErrIdentifierExists
		}
		logger.Error().Err(err).Str("identifier", user.Identifier).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// CreateUserTx inserts a new user within an existing transaction
func (r *UserRepository) CreateUserTx(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("name", "identifier", "password_hash", "role").
		Values(user.Name, user.Identifier, user.PasswordHash, user.Role).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_identifier_key") {
			return 0, apperrors.ErrIdentifierExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetUserByIdentifier retrieves a user by login identifier
func (r *UserRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetUserByRefreshTokenHash looks up a user by the digest of its refresh token
func (r *UserRepository) GetUserByRefreshTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"refresh_token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by token query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving user by token: %w", err)
	}

	return user, nil
}

// IdentifierExists checks if a login identifier is already taken
func (r *UserRepository) IdentifierExists(ctx context.Context, identifier string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE identifier = $1)`,
		identifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking identifier: %w", err)
	}
	return exists, nil
}

// StoreRefreshToken replaces the user's refresh token digest and expiry.
// Storing rotates: any previously issued refresh token stops working.
func (r *UserRepository) StoreRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	sql, args, err := r.sb.Update("users").
		Set("refresh_token_hash", tokenHash).
		Set("refresh_token_expires_at", expiresAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build store refresh token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error storing refresh token")
		return fmt.Errorf("error storing refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// ClearRefreshToken invalidates the user's refresh token on logout
func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("refresh_token_hash", nil).
		Set("refresh_token_expires_at", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear refresh token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error clearing refresh token: %w", err)
	}

	return nil
}

// UpdatePassword replaces the user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
