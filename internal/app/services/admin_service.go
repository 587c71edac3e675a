package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/repositories"
	"github.com/aminejml/permigo/internal/db"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
	"github.com/aminejml/permigo/internal/pkg/auth"
	"github.com/aminejml/permigo/internal/pkg/helpers"
	"github.com/aminejml/permigo/internal/pkg/logger"
	"github.com/aminejml/permigo/internal/pkg/notification"
)

// AdminService covers platform administration: school provisioning,
// moderation, payment verification and platform stats
type AdminService struct {
	userRepo    *repositories.UserRepository
	studentRepo *repositories.StudentRepository
	schoolRepo  *repositories.SchoolRepository
	revenueRepo *repositories.RevenueRepository
	examRepo    *repositories.ExamRepository
	database    *db.PostgresDB
	notifier    *notification.Service
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo *repositories.UserRepository,
	studentRepo *repositories.StudentRepository,
	schoolRepo *repositories.SchoolRepository,
	revenueRepo *repositories.RevenueRepository,
	examRepo *repositories.ExamRepository,
	database *db.PostgresDB,
	notifier *notification.Service,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		revenueRepo: revenueRepo,
		examRepo:    examRepo,
		database:    database,
		notifier:    notifier,
	}
}

// CreateSchool provisions a school with its login account in one transaction
func (s *AdminService) CreateSchool(ctx context.Context, req *dto.CreateSchoolRequest) (*dto.AdminSchoolResponse, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.OwnerName,
		Identifier:   req.Identifier,
		PasswordHash: passwordHash,
		Role:         models.RoleSchool,
	}

	var schoolID int64
	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.userRepo.CreateUserTx(ctx, tx, user)
		if err != nil {
			return err
		}
		user.ID = userID

		schoolID, err = s.schoolRepo.CreateSchoolTx(ctx, tx, userID, req.Name)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("schoolID", schoolID).Str("name", req.Name).Msg("School created")

	return &dto.AdminSchoolResponse{
		ID:         schoolID,
		Name:       req.Name,
		OwnerName:  req.OwnerName,
		Identifier: req.Identifier,
		Active:     true,
	}, nil
}

// ListSchools returns every school for the admin dashboard
func (s *AdminService) ListSchools(ctx context.Context, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	rows, err := s.schoolRepo.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.schoolRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminSchoolResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.AdminSchoolResponse{
			ID:                  row.School.ID,
			Name:                row.School.Name,
			OwnerName:           row.OwnerName,
			Identifier:          row.Identifier,
			TotalStudents:       row.School.TotalStudents,
			TotalEarned:         row.School.TotalEarned,
			TotalOwedToPlatform: row.School.TotalOwedToPlatform,
			Active:              row.School.Active,
		})
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// ListStudents returns every student for the admin dashboard
func (s *AdminService) ListStudents(ctx context.Context, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	rows, err := s.studentRepo.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.studentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminStudentResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.AdminStudentResponse{
			ID:                 row.Student.ID,
			Name:               row.Name,
			Identifier:         row.Identifier,
			AccessMethod:       row.Student.AccessMethod,
			OnboardingComplete: row.Student.OnboardingComplete,
			IsActive:           row.Student.IsActive,
			SchoolID:           row.Student.SchoolID,
			SubscriptionEnd:    row.Student.SubscriptionEnd,
			CreatedAt:          row.CreatedAt,
		})
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// SetSchoolActive toggles whether a school can operate
func (s *AdminService) SetSchoolActive(ctx context.Context, schoolID int64, active bool) error {
	if err := s.schoolRepo.SetActive(ctx, schoolID, active); err != nil {
		return err
	}

	logger.Info().Int64("schoolID", schoolID).Bool("active", active).Msg("School active flag changed")
	return nil
}

// subscriptionWindow maps a subscription type to its paid duration.
// Lifetime subscriptions have no end date.
func subscriptionWindow(subType models.SubscriptionType, start time.Time) *time.Time {
	var end time.Time
	switch subType {
	case models.SubscriptionMonthly:
		end = start.AddDate(0, 1, 0)
	case models.SubscriptionYearly:
		end = start.AddDate(1, 0, 0)
	case models.SubscriptionLifetime:
		return nil
	}
	return &end
}

// VerifyPayment marks an independent student's offline payment as received
// and opens the paid window
func (s *AdminService) VerifyPayment(ctx context.Context, studentID int64, subType models.SubscriptionType) error {
	var fcmToken *string

	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		student, err := s.studentRepo.GetStudentByIDTx(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if student.AccessMethod == nil || *student.AccessMethod != models.AccessMethodIndependent {
			return apperrors.ErrWrongAccessMethod
		}
		fcmToken = student.FCMToken

		now := time.Now()
		return s.studentRepo.ActivateSubscriptionTx(ctx, tx, studentID, subType, now, subscriptionWindow(subType, now))
	})
	if err != nil {
		return err
	}

	logger.Info().Int64("studentID", studentID).Str("type", string(subType)).Msg("Payment verified")

	s.notifier.SendAsync(fcmToken,
		"Payment confirmed",
		"Your payment was verified. Full access is now unlocked.",
		map[string]string{"type": "payment_verified"})

	return nil
}

// GetExamStats builds the platform-wide exam report: completed-attempt
// aggregates plus the most recent finished attempts
func (s *AdminService) GetExamStats(ctx context.Context) (*dto.AdminExamStatsResponse, error) {
	totals, err := s.examRepo.GetExamTotals(ctx, nil)
	if err != nil {
		return nil, err
	}

	recent, err := s.examRepo.ListRecentCompleted(ctx, 10)
	if err != nil {
		return nil, err
	}

	recentExams := make([]dto.RecentExamResponse, 0, len(recent))
	for _, row := range recent {
		recentExams = append(recentExams, dto.RecentExamResponse{
			SessionID:   row.SessionID,
			StartedAt:   row.StartedAt,
			CompletedAt: row.CompletedAt,
			Score:       row.Score,
			Passed:      row.Passed,
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
		})
	}

	return &dto.AdminExamStatsResponse{
		Statistics:  newExamStatistics(totals),
		RecentExams: recentExams,
	}, nil
}

// GetPlatformStats aggregates the platform-wide admin dashboard numbers
func (s *AdminService) GetPlatformStats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	totalStudents, err := s.studentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	activeStudents, err := s.studentRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	totalSchools, err := s.schoolRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	activeSchools, err := s.schoolRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	platformRevenue, totalTransacted, err := s.revenueRepo.PlatformTotals(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.revenueRepo.ListSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	var recentTotal float64
	for _, entry := range recent {
		recentTotal += entry.TotalAmount
	}

	examSessions, err := s.examRepo.CountSessions(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.PlatformStatsResponse{
		TotalStudents:    totalStudents,
		ActiveStudents:   activeStudents,
		TotalSchools:     totalSchools,
		ActiveSchools:    activeSchools,
		PlatformRevenue:  platformRevenue,
		TotalTransacted:  totalTransacted,
		RevenueLast30d:   recentTotal,
		ExamSessionCount: examSessions,
	}, nil
}
