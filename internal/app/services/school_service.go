package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/repositories"
	"github.com/aminejml/permigo/internal/db"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
	"github.com/aminejml/permigo/internal/pkg/helpers"
	"github.com/aminejml/permigo/internal/pkg/logger"
	"github.com/aminejml/permigo/internal/pkg/notification"
)

// Fixed activation pricing in TND. Every school activation charges the same
// amount and splits it between the school and the platform.
const (
	ActivationSchoolShare   = 20.00
	ActivationPlatformShare = 30.00
	ActivationTotalAmount   = ActivationSchoolShare + ActivationPlatformShare

	// SubscriptionDays is the paid window opened by one activation
	SubscriptionDays = 30
)

// SchoolService serves school accounts: approvals, activations, revenue
// and student calendars
type SchoolService struct {
	schoolRepo  *repositories.SchoolRepository
	studentRepo *repositories.StudentRepository
	requestRepo *repositories.SchoolRequestRepository
	revenueRepo *repositories.RevenueRepository
	eventRepo   *repositories.EventRepository
	examRepo    *repositories.ExamRepository
	database    *db.PostgresDB
	notifier    *notification.Service
}

// NewSchoolService creates a new SchoolService
func NewSchoolService(
	schoolRepo *repositories.SchoolRepository,
	studentRepo *repositories.StudentRepository,
	requestRepo *repositories.SchoolRequestRepository,
	revenueRepo *repositories.RevenueRepository,
	eventRepo *repositories.EventRepository,
	examRepo *repositories.ExamRepository,
	database *db.PostgresDB,
	notifier *notification.Service,
) *SchoolService {
	return &SchoolService{
		schoolRepo:  schoolRepo,
		studentRepo: studentRepo,
		requestRepo: requestRepo,
		revenueRepo: revenueRepo,
		eventRepo:   eventRepo,
		examRepo:    examRepo,
		database:    database,
		notifier:    notifier,
	}
}

// schoolForUser resolves the school owned by the authenticated account
func (s *SchoolService) schoolForUser(ctx context.Context, userID int64) (*models.School, error) {
	school, err := s.schoolRepo.GetSchoolByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotSchoolAccount
	}
	return school, nil
}

// studentOfSchool loads a student and verifies it is attached to the school
func (s *SchoolService) studentOfSchool(ctx context.Context, school *models.School, studentID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.SchoolID == nil || *student.SchoolID != school.ID {
		return nil, apperrors.ErrStudentNotInSchool
	}
	return student, nil
}

// GetDashboard aggregates the school's headline numbers
func (s *SchoolService) GetDashboard(ctx context.Context, userID int64) (*dto.SchoolDashboardResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending := models.ApprovalPending
	pendingCount, err := s.studentRepo.CountBySchool(ctx, school.ID, &pending)
	if err != nil {
		return nil, err
	}

	activeCount, err := s.studentRepo.CountActiveBySchool(ctx, school.ID)
	if err != nil {
		return nil, err
	}

	return &dto.SchoolDashboardResponse{
		SchoolID:            school.ID,
		Name:                school.Name,
		TotalStudents:       school.TotalStudents,
		PendingRequests:     pendingCount,
		ActiveStudents:      activeCount,
		TotalEarned:         school.TotalEarned,
		TotalOwedToPlatform: school.TotalOwedToPlatform,
	}, nil
}

// ListStudents returns the school's students, optionally filtered by
// approval status
func (s *SchoolService) ListStudents(ctx context.Context, userID int64, status *models.ApprovalStatus, page, size int) (*dto.PaginatedResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	rows, err := s.studentRepo.ListBySchool(ctx, school.ID, status, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.studentRepo.CountBySchool(ctx, school.ID, status)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SchoolStudentResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.SchoolStudentResponse{
			StudentID:        row.Student.ID,
			Name:             row.Name,
			Identifier:       row.Identifier,
			ApprovalStatus:   row.Student.SchoolApproval,
			PermitType:       row.Student.PermitType,
			IsActive:         row.Student.IsActive,
			SubscriptionEnd:  row.Student.SubscriptionEnd,
			SchoolAttachedAt: row.Student.SchoolAttachedAt,
			SchoolApprovedAt: row.Student.SchoolApprovedAt,
		})
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// ApproveStudent accepts a pending linkage request. Approval grants full
// access through the resolver; payment is settled separately by activation.
func (s *SchoolService) ApproveStudent(ctx context.Context, userID, studentID int64) error {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return err
	}

	student, err := s.studentOfSchool(ctx, school, studentID)
	if err != nil {
		return err
	}
	if student.SchoolApproval == nil || *student.SchoolApproval != models.ApprovalPending {
		return apperrors.NewConflictError("Student request is not pending")
	}

	now := time.Now()
	if err := s.studentRepo.SetSchoolApproval(ctx, studentID, models.ApprovalApproved, now); err != nil {
		return err
	}
	if err := s.requestRepo.MarkReviewed(ctx, studentID, models.ApprovalApproved, nil, now); err != nil {
		return err
	}

	logger.Info().Int64("studentID", studentID).Int64("schoolID", school.ID).Msg("Student approved")

	s.notifier.SendAsync(student.FCMToken,
		"Request approved",
		fmt.Sprintf("%s accepted your request. Your courses are now unlocked.", school.Name),
		map[string]string{"type": "school_approved"})

	return nil
}

// RejectStudent declines a pending linkage request with an optional reason
func (s *SchoolService) RejectStudent(ctx context.Context, userID, studentID int64, reason string) error {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return err
	}

	student, err := s.studentOfSchool(ctx, school, studentID)
	if err != nil {
		return err
	}
	if student.SchoolApproval == nil || *student.SchoolApproval != models.ApprovalPending {
		return apperrors.NewConflictError("Student request is not pending")
	}

	now := time.Now()
	if err := s.studentRepo.SetSchoolApproval(ctx, studentID, models.ApprovalRejected, now); err != nil {
		return err
	}

	var rejectionReason *string
	if reason != "" {
		rejectionReason = &reason
	}
	if err := s.requestRepo.MarkReviewed(ctx, studentID, models.ApprovalRejected, rejectionReason, now); err != nil {
		return err
	}

	logger.Info().Int64("studentID", studentID).Int64("schoolID", school.ID).Msg("Student rejected")

	s.notifier.SendAsync(student.FCMToken,
		"Request declined",
		fmt.Sprintf("%s declined your request. You can pick another access method.", school.Name),
		map[string]string{"type": "school_rejected"})

	return nil
}

// ActivateStudent settles an approved student's activation in one
// transaction: the paid window opens, the ledger row is written and the
// school counters move together or not at all.
func (s *SchoolService) ActivateStudent(ctx context.Context, userID, studentID int64) (*dto.ActivateStudentResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !school.Active {
		return nil, apperrors.NewForbiddenError("School account is deactivated")
	}

	var response *dto.ActivateStudentResponse
	var fcmToken *string

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		student, err := s.studentRepo.GetStudentByIDTx(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if student.SchoolID == nil || *student.SchoolID != school.ID {
			return apperrors.ErrStudentNotInSchool
		}
		if student.SchoolApproval == nil || *student.SchoolApproval != models.ApprovalApproved {
			return apperrors.NewConflictError("Student must be approved before activation")
		}
		if student.IsActive {
			return apperrors.NewConflictError("Student is already activated")
		}
		fcmToken = student.FCMToken

		now := time.Now()
		end := now.AddDate(0, 0, SubscriptionDays)

		err = s.studentRepo.ActivateSubscriptionTx(ctx, tx, studentID, models.SubscriptionMonthly, now, &end)
		if err != nil {
			return err
		}

		entry := &models.RevenueEntry{
			StudentID:       studentID,
			SchoolID:        school.ID,
			SchoolRevenue:   ActivationSchoolShare,
			PlatformRevenue: ActivationPlatformShare,
			TotalAmount:     ActivationTotalAmount,
		}
		if err := s.revenueRepo.CreateEntryTx(ctx, tx, entry); err != nil {
			return err
		}

		err = s.schoolRepo.BumpActivationCountersTx(ctx, tx, school.ID, ActivationSchoolShare, ActivationPlatformShare)
		if err != nil {
			return err
		}

		response = &dto.ActivateStudentResponse{
			StudentID:       studentID,
			SubscriptionEnd: end,
			SchoolRevenue:   ActivationSchoolShare,
			PlatformRevenue: ActivationPlatformShare,
			TotalAmount:     ActivationTotalAmount,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("studentID", studentID).
		Int64("schoolID", school.ID).
		Float64("amount", ActivationTotalAmount).
		Msg("Student activated")

	s.notifier.SendAsync(fcmToken,
		"Subscription activated",
		fmt.Sprintf("Your training access is active for the next %d days.", SubscriptionDays),
		map[string]string{"type": "subscription_activated"})

	return response, nil
}

// ListRevenue returns the school's activation ledger
func (s *SchoolService) ListRevenue(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	rows, err := s.revenueRepo.ListBySchool(ctx, school.ID, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.revenueRepo.CountBySchool(ctx, school.ID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RevenueEntryResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.RevenueEntryResponse{
			ID:              row.Entry.ID,
			StudentID:       row.Entry.StudentID,
			StudentName:     row.StudentName,
			SchoolRevenue:   row.Entry.SchoolRevenue,
			PlatformRevenue: row.Entry.PlatformRevenue,
			TotalAmount:     row.Entry.TotalAmount,
			CreatedAt:       row.Entry.CreatedAt,
		})
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// CreateEvent schedules a calendar entry for one of the school's students
func (s *SchoolService) CreateEvent(ctx context.Context, userID int64, req *dto.CreateEventRequest) (*dto.StudentEventResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentOfSchool(ctx, school, req.StudentID)
	if err != nil {
		return nil, err
	}

	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.NewBadRequestError("Event end must be after its start")
	}

	event := &models.StudentEvent{
		StudentID: student.ID,
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Location:  req.Location,
		Notes:     req.Notes,
	}
	if err := s.eventRepo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	s.notifier.SendAsync(student.FCMToken,
		"New session scheduled",
		fmt.Sprintf("%s: %s", school.Name, event.Title),
		map[string]string{"type": "event_created"})

	return &dto.StudentEventResponse{
		ID:       event.ID,
		Title:    event.Title,
		StartsAt: event.StartsAt,
		EndsAt:   event.EndsAt,
		Location: event.Location,
		Notes:    event.Notes,
	}, nil
}

// DeleteEvent removes a scheduled entry for one of the school's students
func (s *SchoolService) DeleteEvent(ctx context.Context, userID, eventID int64) error {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return err
	}

	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}
	if _, err := s.studentOfSchool(ctx, school, event.StudentID); err != nil {
		return err
	}

	return s.eventRepo.DeleteEvent(ctx, eventID)
}

// GetExamStats builds the school's exam performance report: aggregate
// numbers for its students plus a per-student breakdown, best scores first
func (s *SchoolService) GetExamStats(ctx context.Context, userID int64) (*dto.SchoolExamStatsResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.examRepo.GetExamTotals(ctx, &school.ID)
	if err != nil {
		return nil, err
	}

	rows, err := s.examRepo.ListSchoolStudentResults(ctx, school.ID)
	if err != nil {
		return nil, err
	}

	results := make([]dto.StudentExamResultResponse, 0, len(rows))
	for _, row := range rows {
		results = append(results, dto.StudentExamResultResponse{
			StudentID:      row.StudentID,
			StudentName:    row.StudentName,
			TotalAttempts:  row.TotalAttempts,
			PassedAttempts: row.PassedAttempts,
			BestScore:      row.BestScore,
			LastAttempt:    row.LastAttempt,
		})
	}

	return &dto.SchoolExamStatsResponse{
		Statistics:     newExamStatistics(totals),
		StudentResults: results,
	}, nil
}

// ListStudentExams returns one student's finished attempts for the school,
// newest first
func (s *SchoolService) ListStudentExams(ctx context.Context, userID, studentID int64, page, size int) (*dto.PaginatedResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.studentOfSchool(ctx, school, studentID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sessions, err := s.examRepo.ListCompletedSessionsByStudent(ctx, studentID, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.examRepo.CountCompletedSessionsByStudent(ctx, studentID)
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

// GetStudentExamDetail returns the graded answer sheet of one of the
// school's students for a completed session
func (s *SchoolService) GetStudentExamDetail(ctx context.Context, userID, studentID, sessionID int64) (*dto.ExamSessionDetailResponse, error) {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.studentOfSchool(ctx, school, studentID); err != nil {
		return nil, err
	}

	session, err := s.examRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != studentID {
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

// DetachStudent severs the linkage between the school and one of its
// students. The student drops back to the school-pick step of onboarding
// and can attach to another school.
func (s *SchoolService) DetachStudent(ctx context.Context, userID, studentID int64) error {
	school, err := s.schoolForUser(ctx, userID)
	if err != nil {
		return err
	}

	student, err := s.studentOfSchool(ctx, school, studentID)
	if err != nil {
		return err
	}

	if err := s.studentRepo.DetachFromSchool(ctx, studentID, school.ID); err != nil {
		return err
	}

	logger.Info().Int64("studentID", studentID).Int64("schoolID", school.ID).Msg("Student detached")

	s.notifier.SendAsync(student.FCMToken,
		"School link removed",
		fmt.Sprintf("%s removed you from its student list. You can pick another school.", school.Name),
		map[string]string{"type": "school_detached"})

	return nil
}

func newExamStatistics(totals *repositories.ExamTotals) dto.ExamStatisticsResponse {
	return dto.ExamStatisticsResponse{
		TotalStudents: totals.TotalStudents,
		TotalExams:    totals.TotalExams,
		PassedExams:   totals.PassedExams,
		FailedExams:   totals.FailedExams,
		AverageScore:  totals.AverageScore,
	}
}
