package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
)

const eventColumns = "id, student_id, title, starts_at, ends_at, location, notes"

// EventRepository handles student calendar events
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEvent(row pgx.Row) (*models.StudentEvent, error) {
	event := &models.StudentEvent{}
	err := row.Scan(
		&event.ID, &event.StudentID, &event.Title, &event.StartsAt,
		&event.EndsAt, &event.Location, &event.Notes)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// CreateEvent schedules a calendar entry for a student
func (r *EventRepository) CreateEvent(ctx context.Context, event *models.StudentEvent) error {
	sql, args, err := r.sb.Insert("student_events").
		Columns("student_id", "title", "starts_at", "ends_at", "location", "notes").
		Values(event.StudentID, event.Title, event.StartsAt, event.EndsAt, event.Location, event.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&event.ID); err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}

	return nil
}

// GetEventByID retrieves a single event
func (r *EventRepository) GetEventByID(ctx context.Context, id int64) (*models.StudentEvent, error) {
	sql, args, err := r.sb.Select(eventColumns).
		From("student_events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}

	return event, nil
}

// ListByStudent returns a student's upcoming and past events, soonest first
func (r *EventRepository) ListByStudent(ctx context.Context, studentID int64, offset uint64, limit int) ([]*models.StudentEvent, error) {
	sql, args, err := r.sb.Select(eventColumns).
		From("student_events").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("starts_at ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.StudentEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// CountByStudent counts a student's events
func (r *EventRepository) CountByStudent(ctx context.Context, studentID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM student_events WHERE student_id = $1`,
		studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting events: %w", err)
	}
	return count, nil
}

// DeleteEvent removes a scheduled event
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("student_events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
