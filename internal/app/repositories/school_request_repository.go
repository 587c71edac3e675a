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
)

const requestColumns = "id, student_id, school_id, school_name, status, rejection_reason, requested_at, reviewed_at"

// SchoolRequestRepository handles student-to-school linkage requests
type SchoolRequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSchoolRequestRepository creates a new SchoolRequestRepository
func NewSchoolRequestRepository(db *pgxpool.Pool) *SchoolRequestRepository {
	return &SchoolRequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanRequest(row pgx.Row) (*models.SchoolStudentRequest, error) {
	request := &models.SchoolStudentRequest{}
	err := row.Scan(
		&request.ID, &request.StudentID, &request.SchoolID, &request.SchoolName,
		&request.Status, &request.RejectionReason, &request.RequestedAt, &request.ReviewedAt)
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CreateRequest records a linkage attempt
func (r *SchoolRequestRepository) CreateRequest(ctx context.Context, request *models.SchoolStudentRequest) error {
	sql, args, err := r.sb.Insert("school_student_requests").
		Columns("student_id", "school_id", "school_name", "status").
		Values(request.StudentID, request.SchoolID, request.SchoolName, request.Status).
		Suffix("RETURNING id, requested_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&request.ID, &request.RequestedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("A pending school request already exists")
		}
		return fmt.Errorf("error creating school request: %w", err)
	}

	return nil
}

// GetLatestByStudent returns the student's most recent linkage request
func (r *SchoolRequestRepository) GetLatestByStudent(ctx context.Context, studentID int64) (*models.SchoolStudentRequest, error) {
	sql, args, err := r.sb.Select(requestColumns).
		From("school_student_requests").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("requested_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get request query: %w", err)
	}

	request, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoSchoolRequest
		}
		return nil, fmt.Errorf("error retrieving school request: %w", err)
	}

	return request, nil
}

// MarkReviewed resolves the student's pending request with the school's decision
func (r *SchoolRequestRepository) MarkReviewed(ctx context.Context, studentID int64, status models.ApprovalStatus, rejectionReason *string, reviewedAt time.Time) error {
	sql, args, err := r.sb.Update("school_student_requests").
		Set("status", status).
		Set("rejection_reason", rejectionReason).
		Set("reviewed_at", reviewedAt).
		Where(squirrel.Eq{"student_id": studentID, "status": models.ApprovalPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark reviewed query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error reviewing school request: %w", err)
	}

	return nil
}
