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
)

const schoolColumns = "id, user_id, name, total_students, total_earned, total_owed_to_platform, active"

// SchoolRepository handles school database operations
type SchoolRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSchoolRepository creates a new SchoolRepository
func NewSchoolRepository(db *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSchool(row pgx.Row) (*models.School, error) {
	school := &models.School{}
	err := row.Scan(
		&school.ID, &school.UserID, &school.Name, &school.TotalStudents,
		&school.TotalEarned, &school.TotalOwedToPlatform, &school.Active)
	if err != nil {
		return nil, err
	}
	return school, nil
}

// CreateSchoolTx inserts a school row within an existing transaction
func (r *SchoolRepository) CreateSchoolTx(ctx context.Context, tx pgx.Tx, userID int64, name string) (int64, error) {
	sql, args, err := r.sb.Insert("schools").
		Columns("user_id", "name").
		Values(userID, name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create school query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating school: %w", err)
	}

	return id, nil
}

// GetSchoolByID retrieves a school by ID
func (r *SchoolRepository) GetSchoolByID(ctx context.Context, id int64) (*models.School, error) {
	sql, args, err := r.sb.Select(schoolColumns).
		From("schools").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get school query: %w", err)
	}

	school, err := scanSchool(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("error retrieving school: %w", err)
	}

	return school, nil
}

// GetSchoolByUserID retrieves the school owned by a user account
func (r *SchoolRepository) GetSchoolByUserID(ctx context.Context, userID int64) (*models.School, error) {
	sql, args, err := r.sb.Select(schoolColumns).
		From("schools").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get school query: %w", err)
	}

	school, err := scanSchool(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("error retrieving school: %w", err)
	}

	return school, nil
}

// ListActive returns the public school directory shown during onboarding
func (r *SchoolRepository) ListActive(ctx context.Context) ([]*models.School, error) {
	sql, args, err := r.sb.Select(schoolColumns).
		From("schools").
		Where(squirrel.Eq{"active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list schools query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schools: %w", err)
	}
	defer rows.Close()

	var schools []*models.School
	for rows.Next() {
		school, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning school row: %w", err)
		}
		schools = append(schools, school)
	}

	return schools, rows.Err()
}

// AdminSchoolRow is a school joined with its owning user for admin listings
type AdminSchoolRow struct {
	School     models.School
	OwnerName  string
	Identifier string
}

// ListAll returns every school with its owner account, newest first
func (r *SchoolRepository) ListAll(ctx context.Context, offset uint64, limit int) ([]AdminSchoolRow, error) {
	sql, args, err := r.sb.Select("s.id, s.user_id, s.name, s.total_students, s.total_earned, s.total_owed_to_platform, s.active, u.name, u.identifier").
		From("schools s").
		Join("users u ON u.id = s.user_id").
		OrderBy("s.id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list all schools query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schools: %w", err)
	}
	defer rows.Close()

	var result []AdminSchoolRow
	for rows.Next() {
		var row AdminSchoolRow
		err := rows.Scan(
			&row.School.ID, &row.School.UserID, &row.School.Name, &row.School.TotalStudents,
			&row.School.TotalEarned, &row.School.TotalOwedToPlatform, &row.School.Active,
			&row.OwnerName, &row.Identifier)
		if err != nil {
			return nil, fmt.Errorf("error scanning school row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// CountAll counts every school
func (r *SchoolRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM schools`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting schools: %w", err)
	}
	return count, nil
}

// CountActive counts schools currently allowed to operate
func (r *SchoolRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM schools WHERE active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active schools: %w", err)
	}
	return count, nil
}

// SetActive toggles whether a school can operate on the platform
func (r *SchoolRepository) SetActive(ctx context.Context, schoolID int64, active bool) error {
	sql, args, err := r.sb.Update("schools").
		Set("active", active).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": schoolID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set active query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating school: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSchoolNotFound
	}

	return nil
}

// BumpActivationCountersTx adds one activated student and the split amounts
// to the school's running totals, inside the activation transaction
func (r *SchoolRepository) BumpActivationCountersTx(ctx context.Context, tx pgx.Tx, schoolID int64, earned, owed float64) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE schools
		SET total_students = total_students + 1,
		    total_earned = total_earned + $1,
		    total_owed_to_platform = total_owed_to_platform + $2,
		    updated_at = NOW()
		WHERE id = $3`,
		earned, owed, schoolID)
	if err != nil {
		return fmt.Errorf("error updating school counters: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSchoolNotFound
	}

	return nil
}
