package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aminejml/permigo/internal/app/models"
)

// RevenueRepository handles the immutable activation ledger
type RevenueRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRevenueRepository creates a new RevenueRepository
func NewRevenueRepository(db *pgxpool.Pool) *RevenueRepository {
	return &RevenueRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateEntryTx writes one ledger row inside the activation transaction
func (r *RevenueRepository) CreateEntryTx(ctx context.Context, tx pgx.Tx, entry *models.RevenueEntry) error {
	sql, args, err := r.sb.Insert("revenue_entries").
		Columns("student_id", "school_id", "school_revenue", "platform_revenue", "total_amount").
		Values(entry.StudentID, entry.SchoolID, entry.SchoolRevenue, entry.PlatformRevenue, entry.TotalAmount).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create revenue entry query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("error creating revenue entry: %w", err)
	}

	return nil
}

// RevenueRow is a ledger entry joined with the student's name for listings
type RevenueRow struct {
	Entry       models.RevenueEntry
	StudentName string
}

// ListBySchool returns a school's ledger, newest first
func (r *RevenueRepository) ListBySchool(ctx context.Context, schoolID int64, offset uint64, limit int) ([]RevenueRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.student_id, e.school_id, e.school_revenue, e.platform_revenue,
		       e.total_amount, e.created_at, u.name
		FROM revenue_entries e
		JOIN students s ON s.id = e.student_id
		JOIN users u ON u.id = s.user_id
		WHERE e.school_id = $1
		ORDER BY e.created_at DESC
		OFFSET $2 LIMIT $3`,
		schoolID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing revenue entries: %w", err)
	}
	defer rows.Close()

	var result []RevenueRow
	for rows.Next() {
		var row RevenueRow
		err := rows.Scan(
			&row.Entry.ID, &row.Entry.StudentID, &row.Entry.SchoolID,
			&row.Entry.SchoolRevenue, &row.Entry.PlatformRevenue,
			&row.Entry.TotalAmount, &row.Entry.CreatedAt, &row.StudentName)
		if err != nil {
			return nil, fmt.Errorf("error scanning revenue row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// CountBySchool counts a school's ledger rows
func (r *RevenueRepository) CountBySchool(ctx context.Context, schoolID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM revenue_entries WHERE school_id = $1`,
		schoolID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting revenue entries: %w", err)
	}
	return count, nil
}

// PlatformTotals sums the platform's share and the overall transacted amount
func (r *RevenueRepository) PlatformTotals(ctx context.Context) (platformRevenue, totalTransacted float64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(platform_revenue), 0), COALESCE(SUM(total_amount), 0)
		FROM revenue_entries`).Scan(&platformRevenue, &totalTransacted)
	if err != nil {
		return 0, 0, fmt.Errorf("error summing revenue: %w", err)
	}
	return platformRevenue, totalTransacted, nil
}

// ListSince returns ledger rows created after a point in time, oldest first.
func (r *RevenueRepository) ListSince(ctx context.Context, since time.Time) ([]*models.RevenueEntry, error) {
	sql, args, err := r.sb.Select("id, student_id, school_id, school_revenue, platform_revenue, total_amount, created_at").
		From("revenue_entries").
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list revenue query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing revenue entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.RevenueEntry
	for rows.Next() {
		entry := &models.RevenueEntry{}
		err := rows.Scan(
			&entry.ID, &entry.StudentID, &entry.SchoolID, &entry.SchoolRevenue,
			&entry.PlatformRevenue, &entry.TotalAmount, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning revenue entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
