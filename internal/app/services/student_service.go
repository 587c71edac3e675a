package services

import (
	"context"
	"time"

	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/repositories"
	"github.com/aminejml/permigo/internal/pkg/helpers"
)

// StudentService serves the student's own profile, access state and calendar
type StudentService struct {
	userRepo    *repositories.UserRepository
	studentRepo *repositories.StudentRepository
	schoolRepo  *repositories.SchoolRepository
	eventRepo   *repositories.EventRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(
	userRepo *repositories.UserRepository,
	studentRepo *repositories.StudentRepository,
	schoolRepo *repositories.SchoolRepository,
	eventRepo *repositories.EventRepository,
) *StudentService {
	return &StudentService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		eventRepo:   eventRepo,
	}
}

// GetProfile assembles the /me view: identity, school and resolved access
func (s *StudentService) GetProfile(ctx context.Context, userID int64) (*dto.StudentProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.StudentProfileResponse{
		ID:                 student.ID,
		Name:               user.Name,
		Identifier:         user.Identifier,
		StudentType:        student.StudentType,
		AccessMethod:       student.AccessMethod,
		OnboardingComplete: student.OnboardingComplete,
		PaymentVerified:    student.PaymentVerified,
		SubscriptionEnd:    student.SubscriptionEnd,
		SchoolID:           student.SchoolID,
		PermitType:         student.PermitType,
		Access:             *NewAccessStatusResponse(student, time.Now()),
	}

	if student.SchoolID != nil {
		school, err := s.schoolRepo.GetSchoolByID(ctx, *student.SchoolID)
		if err == nil {
			profile.SchoolName = &school.Name
		}
	}

	return profile, nil
}

// GetAccessStatus resolves the student's current access state
func (s *StudentService) GetAccessStatus(ctx context.Context, userID int64) (*dto.AccessStatusResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return NewAccessStatusResponse(student, time.Now()), nil
}

// ListEvents returns the student's calendar, paginated
func (s *StudentService) ListEvents(ctx context.Context, userID int64, page, size int) (*dto.PaginatedResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	events, err := s.eventRepo.ListByStudent(ctx, student.ID, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.eventRepo.CountByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.StudentEventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, dto.StudentEventResponse{
			ID:       event.ID,
			Title:    event.Title,
			StartsAt: event.StartsAt,
			EndsAt:   event.EndsAt,
			Location: event.Location,
			Notes:    event.Notes,
		})
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// UpdateFCMToken stores the device push token for the student
func (s *StudentService) UpdateFCMToken(ctx context.Context, userID int64, token string) error {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return err
	}

	return s.studentRepo.UpdateFCMToken(ctx, student.ID, &token)
}
