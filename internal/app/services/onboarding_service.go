package services

import (
	"context"
	"errors"
	"time"

	"github.com/aminejml/permigo/internal/app/access"
	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/app/models/dto"
	"github.com/aminejml/permigo/internal/app/repositories"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
	"github.com/aminejml/permigo/internal/pkg/logger"
)

// OnboardingService drives the student's access-method choice and the
// school linkage flow
type OnboardingService struct {
	studentRepo *repositories.StudentRepository
	schoolRepo  *repositories.SchoolRepository
	requestRepo *repositories.SchoolRequestRepository
}

// NewOnboardingService creates a new OnboardingService
func NewOnboardingService(
	studentRepo *repositories.StudentRepository,
	schoolRepo *repositories.SchoolRepository,
	requestRepo *repositories.SchoolRequestRepository,
) *OnboardingService {
	return &OnboardingService{
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		requestRepo: requestRepo,
	}
}

// ChooseAccessMethod records how the student wants to pay for access.
// Independent students finish onboarding immediately and are routed to
// payment; school-linked students finish when they pick a school.
func (s *OnboardingService) ChooseAccessMethod(ctx context.Context, userID int64, req *dto.ChooseAccessMethodRequest) (*dto.AccessStatusResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if methodSelectionLocked(student, now) {
		return nil, apperrors.ErrAccessMethodLocked
	}
	if student.AccessMethod != nil && *student.AccessMethod != req.AccessMethod {
		if err := s.studentRepo.ResetAccessMethod(ctx, student.ID); err != nil {
			return nil, err
		}
	}

	var (
		studentType        models.StudentType
		onboardingComplete bool
	)
	switch req.AccessMethod {
	case models.AccessMethodIndependent:
		studentType = models.StudentTypeIndependent
		onboardingComplete = true
	case models.AccessMethodSchoolLinked:
		studentType = models.StudentTypeAttached
		onboardingComplete = false
	default:
		return nil, apperrors.ErrBadRequest
	}

	err = s.studentRepo.SetAccessMethod(ctx, student.ID, req.AccessMethod, req.PermitType, studentType, onboardingComplete)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("studentID", student.ID).
		Str("method", string(req.AccessMethod)).
		Msg("Access method chosen")

	return s.accessStatus(ctx, student.ID)
}

// LinkSchool attaches a school-linked student to a school and opens a
// pending approval request for the school to review
func (s *OnboardingService) LinkSchool(ctx context.Context, userID int64, req *dto.LinkSchoolRequest) (*dto.AccessStatusResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if student.AccessMethod == nil || *student.AccessMethod != models.AccessMethodSchoolLinked {
		return nil, apperrors.ErrWrongAccessMethod
	}
	if student.SchoolID != nil && student.SchoolApproval != nil && *student.SchoolApproval == models.ApprovalApproved {
		return nil, apperrors.ErrAccessMethodLocked
	}

	school, err := s.schoolRepo.GetSchoolByID(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSchoolNotFound) {
			return nil, apperrors.NewResourceNotFoundError("School not found")
		}
		return nil, err
	}
	if !school.Active {
		return nil, apperrors.NewForbiddenError("This school is not accepting students")
	}

	now := time.Now()
	if err := s.studentRepo.LinkSchool(ctx, student.ID, school.ID, models.ApprovalPending, now); err != nil {
		return nil, err
	}

	request := &models.SchoolStudentRequest{
		StudentID:  student.ID,
		SchoolID:   &school.ID,
		SchoolName: school.Name,
		Status:     models.ApprovalPending,
	}
	if err := s.requestRepo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("studentID", student.ID).
		Int64("schoolID", school.ID).
		Msg("Student requested school linkage")

	return s.accessStatus(ctx, student.ID)
}

// ChangeAccessMethod resets the student back to the method-selection step.
// Only allowed while the current method has not committed to anything.
func (s *OnboardingService) ChangeAccessMethod(ctx context.Context, userID int64) (*dto.AccessStatusResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !access.CanChangeAccessMethod(student, time.Now()) {
		return nil, apperrors.ErrAccessMethodLocked
	}

	if err := s.studentRepo.ResetAccessMethod(ctx, student.ID); err != nil {
		return nil, err
	}

	return s.accessStatus(ctx, student.ID)
}

// GetSchoolRequestStatus returns the outcome of the student's most recent
// linkage request, including the rejection reason when the school declined
func (s *OnboardingService) GetSchoolRequestStatus(ctx context.Context, userID int64) (*dto.SchoolRequestStatusResponse, error) {
	student, err := s.studentRepo.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetLatestByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return &dto.SchoolRequestStatusResponse{
		SchoolID:        request.SchoolID,
		SchoolName:      request.SchoolName,
		Status:          string(request.Status),
		RejectionReason: request.RejectionReason,
		RequestedAt:     request.RequestedAt,
		ReviewedAt:      request.ReviewedAt,
	}, nil
}

// ListSchools returns the active school directory shown during onboarding
func (s *OnboardingService) ListSchools(ctx context.Context) ([]dto.SchoolSummaryResponse, error) {
	schools, err := s.schoolRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.SchoolSummaryResponse, 0, len(schools))
	for _, school := range schools {
		result = append(result, dto.SchoolSummaryResponse{
			ID:   school.ID,
			Name: school.Name,
		})
	}

	return result, nil
}

// methodSelectionLocked guards method selection for students who already
// finished onboarding. Re-posting the current method counts as a change
// attempt too.
func methodSelectionLocked(student *models.Student, now time.Time) bool {
	return student.OnboardingComplete && !access.CanChangeAccessMethod(student, now)
}

func (s *OnboardingService) accessStatus(ctx context.Context, studentID int64) (*dto.AccessStatusResponse, error) {
	student, err := s.studentRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return NewAccessStatusResponse(student, time.Now()), nil
}

// NewAccessStatusResponse converts a resolved access state to its API shape
func NewAccessStatusResponse(student *models.Student, now time.Time) *dto.AccessStatusResponse {
	result := access.Calculate(student, now)
	return &dto.AccessStatusResponse{
		AccessLevel:      result.AccessLevel,
		IsActive:         result.IsActive,
		CanAccessCourses: result.CanAccessCourses,
		CanAccessQCM:     result.CanAccessQCM,
		CanAccessVideos:  result.CanAccessVideos,
		CanAccessExams:   result.CanAccessExams,
		RedirectTo:       result.RedirectTo,
		Message:          result.Message,
		Reason:           string(result.Reason),
		CanChangeMethod:  access.CanChangeAccessMethod(student, now),
	}
}
