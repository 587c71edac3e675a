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
	"github.com/aminejml/permigo/internal/pkg/helpers"
	"github.com/aminejml/permigo/internal/pkg/logger"
)

// ExamService runs blank exam attempts: drawing a sheet, grading a
// submission transactionally and serving history
type ExamService struct {
	examRepo    *repositories.ExamRepository
	studentRepo *repositories.StudentRepository
	database    *db.PostgresDB
}

// NewExamService creates a new ExamService
func NewExamService(
	examRepo *repositories.ExamRepository,
	studentRepo *repositories.StudentRepository,
	database *db.PostgresDB,
) *ExamService {
	return &ExamService{
		examRepo:    examRepo,
		studentRepo: studentRepo,
		database:    database,
	}
}

// StartExam draws a random sheet from the bank and opens a session
func (s *ExamService) StartExam(ctx context.Context, userID int64) (*dto.StartExamResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.examRepo.GetRandomActiveQuestions(ctx, models.ExamQuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questions) < models.ExamQuestionCount {
		logger.Error().Int("available", len(questions)).Msg("Question bank too small for a full exam")
		return nil, apperrors.NewCustomError(apperrors.ErrResourceNotFound, "Not enough exam questions available")
	}

	session, err := s.examRepo.CreateSession(ctx, student.ID, len(questions))
	if err != nil {
		return nil, err
	}

	response := &dto.StartExamResponse{
		SessionID:        session.ID,
		StartedAt:        session.StartedAt,
		TotalQuestions:   session.TotalQuestions,
		TimeLimitMinutes: models.ExamTimeLimitMinutes,
		Questions:        make([]dto.ExamQuestionResponse, 0, len(questions)),
	}
	for _, q := range questions {
		response.Questions = append(response.Questions, newQuestionResponse(q))
	}

	logger.Info().Int64("studentID", student.ID).Int64("sessionID", session.ID).Msg("Exam started")

	return response, nil
}

// SubmitExam grades a session inside one transaction. The session row is
// locked first, every answer is graded against the bank, and the session is
// finalized exactly once. Submitted answers for unknown questions are
// dropped; blank answers count as wrong; questions missing from the
// submission lower the score but are not counted as wrong.
func (s *ExamService) SubmitExam(ctx context.Context, userID, sessionID int64, req *dto.SubmitExamRequest) (*dto.ExamResultResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var result *dto.ExamResultResponse

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.examRepo.GetSessionByIDTx(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if err := ensureScorable(session, student.ID); err != nil {
			return err
		}

		answered := 0
		outcomes := make([]bool, 0, len(req.Answers))
		for _, submitted := range req.Answers {
			correctAnswer, err := s.examRepo.GetCorrectAnswerTx(ctx, tx, submitted.QuestionID)
			if err != nil {
				if errors.Is(err, apperrors.ErrResourceNotFound) {
					continue
				}
				return err
			}

			normalized := NormalizeAnswer(submitted.Answer)
			isCorrect := EvaluateAnswer(submitted.Answer, correctAnswer)
			outcomes = append(outcomes, isCorrect)
			if normalized != "" {
				answered++
			}

			answer := &models.ExamAnswer{
				ExamSessionID: session.ID,
				QuestionID:    submitted.QuestionID,
				StudentAnswer: normalized,
				IsCorrect:     isCorrect,
			}
			if err := s.examRepo.InsertAnswerTx(ctx, tx, answer); err != nil {
				return err
			}
		}

		correct, wrong := TallyResults(outcomes)
		score := ComputeScore(correct, session.TotalQuestions)
		passed := HasPassed(correct)
		completedAt := time.Now()

		err = s.examRepo.CompleteSessionTx(ctx, tx, session.ID, correct, wrong, score, passed, req.TimeTakenSeconds, completedAt)
		if err != nil {
			return err
		}

		result = &dto.ExamResultResponse{
			SessionID:        session.ID,
			Score:            score,
			CorrectAnswers:   correct,
			WrongAnswers:     wrong,
			TotalQuestions:   session.TotalQuestions,
			Passed:           passed,
			PassingScore:     models.ExamPassingScore,
			TimeTakenSeconds: req.TimeTakenSeconds,
			CompletedAt:      completedAt,
		}

		logger.Info().
			Int64("sessionID", session.ID).
			Int("correct", correct).
			Int("answered", answered).
			Bool("passed", passed).
			Msg("Exam submitted")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ensureScorable verifies the session belongs to the submitting student and
// has not been finalized yet. Completion is one-way, so a second submission
// is a conflict, not a re-grade.
func ensureScorable(session *models.ExamSession, studentID int64) error {
	if session.StudentID != studentID {
		return apperrors.ErrPermissionDenied
	}
	if session.CompletedAt != nil {
		return apperrors.ErrExamAlreadyScored
	}
	return nil
}

// GetHistory returns the student's past attempts, newest first
func (s *ExamService) GetHistory(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sessions, err := s.examRepo.ListSessionsByStudent(ctx, student.ID, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.examRepo.CountSessionsByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ExamSessionSummary, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, dto.ExamSessionSummary{
			SessionID:      session.ID,
			StartedAt:      session.StartedAt,
			CompletedAt:    session.CompletedAt,
			Score:          session.Score,
			CorrectAnswers: session.CorrectAnswers,
			WrongAnswers:   session.WrongAnswers,
			Passed:         session.Passed,
		})
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// GetSessionDetail returns the full graded answer sheet for review.
// Correct answers are only revealed for completed sessions.
func (s *ExamService) GetSessionDetail(ctx context.Context, userID, sessionID int64) (*dto.ExamSessionDetailResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := s.examRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != student.ID {
		return nil, apperrors.ErrPermissionDenied
	}
	if session.CompletedAt == nil {
		return nil, apperrors.NewBadRequestError("Exam session is still in progress")
	}

	answers, err := s.examRepo.GetSessionAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ExamSessionDetailResponse{
		Session: *session,
		Answers: make([]dto.ExamAnswerDetail, 0, len(answers)),
	}
	for _, row := range answers {
		detail.Answers = append(detail.Answers, dto.ExamAnswerDetail{
			Question:      newQuestionResponse(&row.Question),
			StudentAnswer: row.Answer.StudentAnswer,
			CorrectAnswer: row.Question.CorrectAnswer,
			IsCorrect:     row.Answer.IsCorrect,
		})
	}

	return detail, nil
}

func newQuestionResponse(q *models.ExamQuestion) dto.ExamQuestionResponse {
	return dto.ExamQuestionResponse{
		ID:             q.ID,
		QuestionNumber: q.QuestionNumber,
		QuestionText:   q.QuestionText,
		ImageURL:       q.ImageURL,
		OptionA:        q.OptionA,
		OptionB:        q.OptionB,
		OptionC:        q.OptionC,
		Category:       q.Category,
	}
}
