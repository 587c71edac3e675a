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
	"github.com/aminejml/permigo/internal/pkg/logger"
)

const studentColumns = `s.id, s.user_id, s.student_type, s.access_method, s.onboarding_complete,
	s.payment_verified, s.subscription_type, s.subscription_status, s.subscription_start,
	s.subscription_end, s.school_id, s.school_approval_status, s.school_attached_at,
	s.school_approved_at, s.is_active, s.access_level, s.permit_type, s.fcm_token`

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(
		&student.ID, &student.UserID, &student.StudentType, &student.AccessMethod,
		&student.OnboardingComplete, &student.PaymentVerified, &student.SubscriptionType,
		&student.SubscriptionStatus, &student.SubscriptionStart, &student.SubscriptionEnd,
		&student.SchoolID, &student.SchoolApproval, &student.SchoolAttachedAt,
		&student.SchoolApprovedAt, &student.IsActive, &student.AccessLevel,
		&student.PermitType, &student.FCMToken)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// CreateStudentTx inserts a student row for a freshly registered user
func (r *StudentRepository) CreateStudentTx(ctx context.Context, tx pgx.Tx, userID int64) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id").
		Values(userID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return id, nil
}

// GetStudentByUserID retrieves a student by its owning user ID
func (r *StudentRepository) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students s").
		Where(squirrel.Eq{"s.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetStudentByID retrieves a student by its own ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetStudentByIDTx retrieves a student row locked for update inside a transaction
func (r *StudentRepository) GetStudentByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students s").
		Where(squirrel.Eq{"s.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// SetAccessMethod records the student's onboarding choice. The permit type
// is only written when provided, so a re-choice without one keeps the
// previously chosen permit.
func (r *StudentRepository) SetAccessMethod(ctx context.Context, studentID int64, method models.AccessMethod, permitType *models.PermitType, studentType models.StudentType, onboardingComplete bool) error {
	sql, args, err := setAccessMethodBuilder(r.sb, studentID, method, permitType, studentType, onboardingComplete).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set access method query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting access method: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

func setAccessMethodBuilder(sb squirrel.StatementBuilderType, studentID int64, method models.AccessMethod, permitType *models.PermitType, studentType models.StudentType, onboardingComplete bool) squirrel.UpdateBuilder {
	builder := sb.Update("students").
		Set("access_method", method).
		Set("student_type", studentType).
		Set("onboarding_complete", onboardingComplete).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": studentID})
	if permitType != nil {
		builder = builder.Set("permit_type", permitType)
	}
	return builder
}

// ResetAccessMethod clears every method-specific field so the student can
// restart onboarding with the other method
func (r *StudentRepository) ResetAccessMethod(ctx context.Context, studentID int64) error {
	sql, args, err := r.sb.Update("students").
		Set("access_method", nil).
		Set("onboarding_complete", false).
		Set("payment_verified", false).
		Set("subscription_type", nil).
		Set("subscription_status", nil).
		Set("subscription_start", nil).
		Set("subscription_end", nil).
		Set("school_id", nil).
		Set("school_approval_status", nil).
		Set("school_attached_at", nil).
		Set("school_approved_at", nil).
		Set("is_active", false).
		Set("access_level", models.AccessNone).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reset access method query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error resetting access method: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// LinkSchool attaches the student to a school with the given approval status
func (r *StudentRepository) LinkSchool(ctx context.Context, studentID, schoolID int64, status models.ApprovalStatus, now time.Time) error {
	builder := r.sb.Update("students").
		Set("school_id", schoolID).
		Set("school_approval_status", status).
		Set("school_attached_at", now).
		Set("student_type", models.StudentTypeAttached).
		Set("onboarding_complete", true).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": studentID})

	if status == models.ApprovalApproved {
		builder = builder.Set("school_approved_at", now)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build link school query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error linking school: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// DetachFromSchool severs the student's school linkage and drops them back
// to the school-pick step of onboarding. The school_id match guards against
// detaching another school's student.
func (r *StudentRepository) DetachFromSchool(ctx context.Context, studentID, schoolID int64) error {
	sql, args, err := r.sb.Update("students").
		Set("school_id", nil).
		Set("school_approval_status", nil).
		Set("school_attached_at", nil).
		Set("school_approved_at", nil).
		Set("onboarding_complete", false).
		Set("is_active", false).
		Set("access_level", models.AccessNone).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": studentID, "school_id": schoolID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build detach student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error detaching student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotInSchool
	}

	return nil
}

// SetSchoolApproval updates the approval status for a school-linked student
func (r *StudentRepository) SetSchoolApproval(ctx context.Context, studentID int64, status models.ApprovalStatus, now time.Time) error {
	builder := r.sb.Update("students").
		Set("school_approval_status", status).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": studentID})

	if status == models.ApprovalApproved {
		builder = builder.Set("school_approved_at", now)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set approval query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting approval status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ActivateSubscriptionTx opens a paid subscription window inside a transaction.
// Used both for school activations and admin-verified independent payments.
// A nil end means the subscription never lapses.
func (r *StudentRepository) ActivateSubscriptionTx(ctx context.Context, tx pgx.Tx, studentID int64, subType models.SubscriptionType, start time.Time, end *time.Time) error {
	sql, args, err := r.sb.Update("students").
		Set("payment_verified", true).
		Set("subscription_type", subType).
		Set("subscription_status", models.SubscriptionActive).
		Set("subscription_start", start).
		Set("subscription_end", end).
		Set("is_active", true).
		Set("access_level", models.AccessFull).
		Set("updated_at", start).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build activate subscription query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error activating subscription: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateFCMToken stores the device push token for a student
func (r *StudentRepository) UpdateFCMToken(ctx context.Context, studentID int64, token *string) error {
	sql, args, err := r.sb.Update("students").
		Set("fcm_token", token).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update fcm token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating fcm token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ClearFCMTokenByValue drops a stale device token wherever it is stored
func (r *StudentRepository) ClearFCMTokenByValue(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("students").
		Set("fcm_token", nil).
		Where(squirrel.Eq{"fcm_token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear fcm token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error clearing fcm token: %w", err)
	}

	return nil
}

// SchoolStudentRow is a student joined with its user for school listings
type SchoolStudentRow struct {
	Student    models.Student
	Name       string
	Identifier string
}

// ListBySchool returns students attached to a school, optionally filtered by
// approval status, newest attachment first
func (r *StudentRepository) ListBySchool(ctx context.Context, schoolID int64, status *models.ApprovalStatus, offset uint64, limit int) ([]SchoolStudentRow, error) {
	builder := r.sb.Select(studentColumns+", u.name, u.identifier").
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.school_id": schoolID}).
		OrderBy("s.school_attached_at DESC NULLS LAST", "s.id DESC").
		Offset(offset).
		Limit(uint64(limit))

	if status != nil {
		builder = builder.Where(squirrel.Eq{"s.school_approval_status": *status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing school students: %w", err)
	}
	defer rows.Close()

	var result []SchoolStudentRow
	for rows.Next() {
		var row SchoolStudentRow
		err := rows.Scan(
			&row.Student.ID, &row.Student.UserID, &row.Student.StudentType, &row.Student.AccessMethod,
			&row.Student.OnboardingComplete, &row.Student.PaymentVerified, &row.Student.SubscriptionType,
			&row.Student.SubscriptionStatus, &row.Student.SubscriptionStart, &row.Student.SubscriptionEnd,
			&row.Student.SchoolID, &row.Student.SchoolApproval, &row.Student.SchoolAttachedAt,
			&row.Student.SchoolApprovedAt, &row.Student.IsActive, &row.Student.AccessLevel,
			&row.Student.PermitType, &row.Student.FCMToken,
			&row.Name, &row.Identifier)
		if err != nil {
			return nil, fmt.Errorf("error scanning school student row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// CountBySchool counts students attached to a school, optionally by status
func (r *StudentRepository) CountBySchool(ctx context.Context, schoolID int64, status *models.ApprovalStatus) (int64, error) {
	builder := r.sb.Select("COUNT(*)").
		From("students").
		Where(squirrel.Eq{"school_id": schoolID})

	if status != nil {
		builder = builder.Where(squirrel.Eq{"school_approval_status": *status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting school students: %w", err)
	}

	return count, nil
}

// CountActiveBySchool counts activated students for a school dashboard
func (r *StudentRepository) CountActiveBySchool(ctx context.Context, schoolID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM students
		WHERE school_id = $1 AND is_active = TRUE`,
		schoolID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active students: %w", err)
	}
	return count, nil
}

// AdminStudentRow is a student joined with its user for admin listings
type AdminStudentRow struct {
	Student    models.Student
	Name       string
	Identifier string
	CreatedAt  time.Time
}

// ListAll returns every student for the admin listing, newest first
func (r *StudentRepository) ListAll(ctx context.Context, offset uint64, limit int) ([]AdminStudentRow, error) {
	sql, args, err := r.sb.Select(studentColumns+", u.name, u.identifier, u.created_at").
		From("students s").
		Join("users u ON u.id = s.user_id").
		OrderBy("s.id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list all students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var result []AdminStudentRow
	for rows.Next() {
		var row AdminStudentRow
		err := rows.Scan(
			&row.Student.ID, &row.Student.UserID, &row.Student.StudentType, &row.Student.AccessMethod,
			&row.Student.OnboardingComplete, &row.Student.PaymentVerified, &row.Student.SubscriptionType,
			&row.Student.SubscriptionStatus, &row.Student.SubscriptionStart, &row.Student.SubscriptionEnd,
			&row.Student.SchoolID, &row.Student.SchoolApproval, &row.Student.SchoolAttachedAt,
			&row.Student.SchoolApprovedAt, &row.Student.IsActive, &row.Student.AccessLevel,
			&row.Student.PermitType, &row.Student.FCMToken,
			&row.Name, &row.Identifier, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// CountAll counts every student on the platform
func (r *StudentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// CountActive counts students with a currently active subscription or approval
func (r *StudentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM students WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active students: %w", err)
	}
	return count, nil
}

// ExpiredStudent is a student whose paid window just lapsed, with enough
// user context to notify them
type ExpiredStudent struct {
	StudentID int64
	UserID    int64
	Name      string
	FCMToken  *string
}

// ExpireLapsedSubscriptions flips every independent student whose paid window
// has passed to expired, in one statement, and returns who was affected
func (r *StudentRepository) ExpireLapsedSubscriptions(ctx context.Context, now time.Time) ([]ExpiredStudent, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE students s
		SET subscription_status = 'expired',
		    access_level = 'limited',
		    is_active = FALSE,
		    updated_at = $1
		FROM users u
		WHERE u.id = s.user_id
		  AND s.access_method = 'independent'
		  AND s.subscription_status = 'active'
		  AND s.subscription_end IS NOT NULL
		  AND s.subscription_end < $1
		RETURNING s.id, s.user_id, u.name, s.fcm_token`,
		now)
	if err != nil {
		return nil, fmt.Errorf("error expiring subscriptions: %w", err)
	}
	defer rows.Close()

	var expired []ExpiredStudent
	for rows.Next() {
		var e ExpiredStudent
		if err := rows.Scan(&e.StudentID, &e.UserID, &e.Name, &e.FCMToken); err != nil {
			return nil, fmt.Errorf("error scanning expired student: %w", err)
		}
		expired = append(expired, e)
	}

	if len(expired) > 0 {
		logger.Info().Int("count", len(expired)).Msg("Expired lapsed subscriptions")
	}

	return expired, rows.Err()
}

// ExpiringStudent is a student whose subscription ends inside the warning window
type ExpiringStudent struct {
	StudentID       int64
	Name            string
	FCMToken        *string
	SubscriptionEnd time.Time
}

// ListExpiringSubscriptions returns active independent students whose paid
// window ends between now and the given horizon
func (r *StudentRepository) ListExpiringSubscriptions(ctx context.Context, now, until time.Time) ([]ExpiringStudent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, u.name, s.fcm_token, s.subscription_end
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE s.access_method = 'independent'
		  AND s.subscription_status = 'active'
		  AND s.subscription_end IS NOT NULL
		  AND s.subscription_end >= $1
		  AND s.subscription_end < $2`,
		now, until)
	if err != nil {
		return nil, fmt.Errorf("error listing expiring subscriptions: %w", err)
	}
	defer rows.Close()

	var expiring []ExpiringStudent
	for rows.Next() {
		var e ExpiringStudent
		if err := rows.Scan(&e.StudentID, &e.Name, &e.FCMToken, &e.SubscriptionEnd); err != nil {
			return nil, fmt.Errorf("error scanning expiring student: %w", err)
		}
		expiring = append(expiring, e)
	}

	return expiring, rows.Err()
}
