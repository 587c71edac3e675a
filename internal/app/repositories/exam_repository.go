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

const questionColumns = "id, question_number, question_text, image_url, option_a, option_b, option_c, correct_answer, category, is_active"

// ExamRepository handles exam bank, session and answer database operations
type ExamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanQuestion(row pgx.Row) (*models.ExamQuestion, error) {
	q := &models.ExamQuestion{}
	err := row.Scan(
		&q.ID, &q.QuestionNumber, &q.QuestionText, &q.ImageURL,
		&q.OptionA, &q.OptionB, &q.OptionC, &q.CorrectAnswer,
		&q.Category, &q.IsActive)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func scanSession(row pgx.Row) (*models.ExamSession, error) {
	s := &models.ExamSession{}
	err := row.Scan(
		&s.ID, &s.StudentID, &s.StartedAt, &s.CompletedAt,
		&s.TotalQuestions, &s.CorrectAnswers, &s.WrongAnswers,
		&s.Score, &s.Passed, &s.TimeTakenSeconds)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetRandomActiveQuestions draws a random exam sheet from the question bank
func (r *ExamRepository) GetRandomActiveQuestions(ctx context.Context, count int) ([]*models.ExamQuestion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+questionColumns+`
		FROM exam_questions
		WHERE is_active = TRUE
		ORDER BY RANDOM()
		LIMIT $1`,
		count)
	if err != nil {
		return nil, fmt.Errorf("error drawing exam questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.ExamQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// CreateSession opens a new exam attempt for a student
func (r *ExamRepository) CreateSession(ctx context.Context, studentID int64, totalQuestions int) (*models.ExamSession, error) {
	sql, args, err := r.sb.Insert("exam_sessions").
		Columns("student_id", "total_questions").
		Values(studentID, totalQuestions).
		Suffix("RETURNING id, student_id, started_at, completed_at, total_questions, correct_answers, wrong_answers, score, passed, time_taken_seconds").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create session query: %w", err)
	}

	session, err := scanSession(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("error creating exam session: %w", err)
	}

	return session, nil
}

// GetSessionByID retrieves an exam session
func (r *ExamRepository) GetSessionByID(ctx context.Context, id int64) (*models.ExamSession, error) {
	session, err := scanSession(r.db.QueryRow(ctx, `
		SELECT id, student_id, started_at, completed_at, total_questions,
		       correct_answers, wrong_answers, score, passed, time_taken_seconds
		FROM exam_sessions
		WHERE id = $1`,
		id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExamSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving exam session: %w", err)
	}

	return session, nil
}

// GetSessionByIDTx retrieves an exam session locked for update. Concurrent
// submissions for the same session serialize on this lock.
func (r *ExamRepository) GetSessionByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.ExamSession, error) {
	session, err := scanSession(tx.QueryRow(ctx, `
		SELECT id, student_id, started_at, completed_at, total_questions,
		       correct_answers, wrong_answers, score, passed, time_taken_seconds
		FROM exam_sessions
		WHERE id = $1
		FOR UPDATE`,
		id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExamSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving exam session: %w", err)
	}

	return session, nil
}

// GetCorrectAnswerTx returns the correct option for an active bank question
func (r *ExamRepository) GetCorrectAnswerTx(ctx context.Context, tx pgx.Tx, questionID int64) (string, error) {
	var answer string
	err := tx.QueryRow(ctx, `
		SELECT correct_answer FROM exam_questions
		WHERE id = $1 AND is_active = TRUE`,
		questionID).Scan(&answer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrResourceNotFound
		}
		return "", fmt.Errorf("error retrieving correct answer: %w", err)
	}

	return answer, nil
}

// InsertAnswerTx records one graded answer row within the submission transaction
func (r *ExamRepository) InsertAnswerTx(ctx context.Context, tx pgx.Tx, answer *models.ExamAnswer) error {
	sql, args, err := r.sb.Insert("exam_answers").
		Columns("exam_session_id", "question_id", "student_answer", "is_correct").
		Values(answer.ExamSessionID, answer.QuestionID, answer.StudentAnswer, answer.IsCorrect).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert answer query: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting exam answer: %w", err)
	}

	return nil
}

// CompleteSessionTx finalizes a session exactly once. The completed_at guard
// makes a second submission a no-op at the SQL level.
func (r *ExamRepository) CompleteSessionTx(ctx context.Context, tx pgx.Tx, sessionID int64, correct, wrong int, score float64, passed bool, timeTakenSeconds *int, completedAt time.Time) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE exam_sessions
		SET completed_at = $1,
		    correct_answers = $2,
		    wrong_answers = $3,
		    score = $4,
		    passed = $5,
		    time_taken_seconds = $6
		WHERE id = $7 AND completed_at IS NULL`,
		completedAt, correct, wrong, score, passed, timeTakenSeconds, sessionID)
	if err != nil {
		return fmt.Errorf("error completing exam session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrExamAlreadyScored
	}

	return nil
}

// ListSessionsByStudent returns a student's exam history, newest first
func (r *ExamRepository) ListSessionsByStudent(ctx context.Context, studentID int64, offset uint64, limit int) ([]*models.ExamSession, error) {
	sql, args, err := r.sb.Select("id, student_id, started_at, completed_at, total_questions, correct_answers, wrong_answers, score, passed, time_taken_seconds").
		From("exam_sessions").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("started_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing exam sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ExamSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// CountSessionsByStudent counts a student's exam attempts
func (r *ExamRepository) CountSessionsByStudent(ctx context.Context, studentID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM exam_sessions WHERE student_id = $1`,
		studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting exam sessions: %w", err)
	}
	return count, nil
}

// CountSessions counts every exam attempt on the platform
func (r *ExamRepository) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM exam_sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting exam sessions: %w", err)
	}
	return count, nil
}

// ListCompletedSessionsByStudent returns a student's finished attempts,
// newest first. In-progress sessions are not part of the report.
func (r *ExamRepository) ListCompletedSessionsByStudent(ctx context.Context, studentID int64, offset uint64, limit int) ([]*models.ExamSession, error) {
	sql, args, err := r.sb.Select("id, student_id, started_at, completed_at, total_questions, correct_answers, wrong_answers, score, passed, time_taken_seconds").
		From("exam_sessions").
		Where(squirrel.Eq{"student_id": studentID}).
		Where("completed_at IS NOT NULL").
		OrderBy("started_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list completed sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing completed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ExamSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// CountCompletedSessionsByStudent counts a student's finished attempts
func (r *ExamRepository) CountCompletedSessionsByStudent(ctx context.Context, studentID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM exam_sessions
		WHERE student_id = $1 AND completed_at IS NOT NULL`,
		studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting completed sessions: %w", err)
	}
	return count, nil
}

// ExamTotals aggregates completed exam attempts, platform wide or for the
// students of one school
type ExamTotals struct {
	TotalStudents int64
	TotalExams    int64
	PassedExams   int64
	FailedExams   int64
	AverageScore  *float64
}

// GetExamTotals computes the completed-attempt aggregates. A nil schoolID
// covers the whole platform.
func (r *ExamRepository) GetExamTotals(ctx context.Context, schoolID *int64) (*ExamTotals, error) {
	totals := &ExamTotals{}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT es.student_id),
		       COUNT(*),
		       COUNT(CASE WHEN es.passed THEN 1 END),
		       COUNT(CASE WHEN NOT es.passed THEN 1 END),
		       ROUND(AVG(es.score), 2)
		FROM exam_sessions es
		JOIN students s ON s.id = es.student_id
		WHERE es.completed_at IS NOT NULL
		  AND ($1::BIGINT IS NULL OR s.school_id = $1)`,
		schoolID).Scan(
		&totals.TotalStudents, &totals.TotalExams,
		&totals.PassedExams, &totals.FailedExams, &totals.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("error aggregating exam totals: %w", err)
	}

	return totals, nil
}

// StudentExamResultRow is one student's aggregate in a school's exam report
type StudentExamResultRow struct {
	StudentID      int64
	StudentName    string
	TotalAttempts  int64
	PassedAttempts int64
	BestScore      *float64
	LastAttempt    *time.Time
}

// ListSchoolStudentResults aggregates completed attempts per student of a
// school, best scores first; students without attempts still appear
func (r *ExamRepository) ListSchoolStudentResults(ctx context.Context, schoolID int64) ([]StudentExamResultRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, u.name,
		       COUNT(es.id),
		       COUNT(CASE WHEN es.passed THEN 1 END),
		       MAX(es.score),
		       MAX(es.completed_at)
		FROM students s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN exam_sessions es ON es.student_id = s.id AND es.completed_at IS NOT NULL
		WHERE s.school_id = $1
		GROUP BY s.id, u.name
		ORDER BY MAX(es.score) DESC NULLS LAST`,
		schoolID)
	if err != nil {
		return nil, fmt.Errorf("error listing student exam results: %w", err)
	}
	defer rows.Close()

	var result []StudentExamResultRow
	for rows.Next() {
		var row StudentExamResultRow
		err := rows.Scan(
			&row.StudentID, &row.StudentName, &row.TotalAttempts,
			&row.PassedAttempts, &row.BestScore, &row.LastAttempt)
		if err != nil {
			return nil, fmt.Errorf("error scanning student result row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// RecentExamRow is one recently completed attempt with its student's name
type RecentExamRow struct {
	SessionID   int64
	StartedAt   time.Time
	CompletedAt *time.Time
	Score       *float64
	Passed      *bool
	StudentID   int64
	StudentName string
}

// ListRecentCompleted returns the platform's latest finished attempts
func (r *ExamRepository) ListRecentCompleted(ctx context.Context, limit int) ([]RecentExamRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT es.id, es.started_at, es.completed_at, es.score, es.passed,
		       s.id, u.name
		FROM exam_sessions es
		JOIN students s ON s.id = es.student_id
		JOIN users u ON u.id = s.user_id
		WHERE es.completed_at IS NOT NULL
		ORDER BY es.completed_at DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent exams: %w", err)
	}
	defer rows.Close()

	var result []RecentExamRow
	for rows.Next() {
		var row RecentExamRow
		err := rows.Scan(
			&row.SessionID, &row.StartedAt, &row.CompletedAt,
			&row.Score, &row.Passed, &row.StudentID, &row.StudentName)
		if err != nil {
			return nil, fmt.Errorf("error scanning recent exam row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// SessionAnswerRow pairs a recorded answer with its bank question
type SessionAnswerRow struct {
	Answer   models.ExamAnswer
	Question models.ExamQuestion
}

// GetSessionAnswers returns the full answer sheet for a session in bank order
func (r *ExamRepository) GetSessionAnswers(ctx context.Context, sessionID int64) ([]SessionAnswerRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.exam_session_id, a.question_id, a.student_answer, a.is_correct, a.answered_at,
		       q.id, q.question_number, q.question_text, q.image_url,
		       q.option_a, q.option_b, q.option_c, q.correct_answer, q.category, q.is_active
		FROM exam_answers a
		JOIN exam_questions q ON q.id = a.question_id
		WHERE a.exam_session_id = $1
		ORDER BY q.question_number ASC, a.id ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing session answers: %w", err)
	}
	defer rows.Close()

	var result []SessionAnswerRow
	for rows.Next() {
		var row SessionAnswerRow
		err := rows.Scan(
			&row.Answer.ID, &row.Answer.ExamSessionID, &row.Answer.QuestionID,
			&row.Answer.StudentAnswer, &row.Answer.IsCorrect, &row.Answer.AnsweredAt,
			&row.Question.ID, &row.Question.QuestionNumber, &row.Question.QuestionText,
			&row.Question.ImageURL, &row.Question.OptionA, &row.Question.OptionB,
			&row.Question.OptionC, &row.Question.CorrectAnswer, &row.Question.Category,
			&row.Question.IsActive)
		if err != nil {
			return nil, fmt.Errorf("error scanning session answer row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
