// Package access derives a student's permissions from their stored state.
// Every function here is pure: callers load the student row, the resolver
// decides, side effects stay in the service layer.
package access

import (
	"time"

	"github.com/aminejml/permigo/internal/app/models"
)

// Reason identifies which branch of the decision table produced a result
type Reason string

const (
	ReasonOnboardingIncomplete Reason = "onboarding_incomplete"
	ReasonPaidActive           Reason = "paid_active"
	ReasonUnpaid               Reason = "unpaid"
	ReasonSchoolPending        Reason = "school_pending"
	ReasonSchoolApproved       Reason = "school_approved"
	ReasonSchoolRejected       Reason = "school_rejected"
	ReasonUnknownState         Reason = "unknown_state"
)

// Redirect targets for clients that need to route the student somewhere
const (
	RedirectOnboarding = "onboarding"
	RedirectPayment    = "payment"
)

// Result is the access descriptor computed from a student record
type Result struct {
	AccessLevel      models.AccessLevel `json:"access_level"`
	IsActive         bool               `json:"is_active"`
	CanAccessCourses bool               `json:"can_access_courses"`
	CanAccessQCM     bool               `json:"can_access_qcm"`
	CanAccessVideos  bool               `json:"can_access_videos"`
	CanAccessExams   bool               `json:"can_access_exams"`
	RedirectTo       string             `json:"redirect_to,omitempty"`
	Message          string             `json:"message,omitempty"`
	Reason           Reason             `json:"reason"`
}

// Calculate resolves a student record to an access descriptor.
// The decision order is fixed: onboarding gate first, then the chosen
// access method, then a fallback for out-of-enum rows.
func Calculate(student *models.Student, now time.Time) Result {
	if !student.OnboardingComplete {
		return Result{
			AccessLevel: models.AccessNone,
			RedirectTo:  RedirectOnboarding,
			Reason:      ReasonOnboardingIncomplete,
		}
	}

	if student.AccessMethod != nil {
		switch *student.AccessMethod {
		case models.AccessMethodIndependent:
			return resolveIndependent(student, now)
		case models.AccessMethodSchoolLinked:
			return resolveSchoolLinked(student)
		}
	}

	return Result{
		AccessLevel: models.AccessNone,
		RedirectTo:  RedirectOnboarding,
		Message:     "Please complete your account setup",
		Reason:      ReasonUnknownState,
	}
}

func resolveIndependent(student *models.Student, now time.Time) Result {
	paid := student.PaymentVerified &&
		student.SubscriptionStatus != nil &&
		*student.SubscriptionStatus == models.SubscriptionActive &&
		(student.SubscriptionEnd == nil || student.SubscriptionEnd.After(now))

	if paid {
		return grantFull(ReasonPaidActive)
	}

	return Result{
		AccessLevel: models.AccessLimited,
		RedirectTo:  RedirectPayment,
		Message:     "Subscribe to access premium content",
		Reason:      ReasonUnpaid,
	}
}

func resolveSchoolLinked(student *models.Student) Result {
	if student.SchoolApproval != nil {
		switch *student.SchoolApproval {
		case models.ApprovalPending:
			return Result{
				AccessLevel: models.AccessLimited,
				Message:     "Waiting for school approval. You will be notified once approved.",
				Reason:      ReasonSchoolPending,
			}
		case models.ApprovalApproved:
			return grantFull(ReasonSchoolApproved)
		case models.ApprovalRejected:
			return Result{
				AccessLevel: models.AccessNone,
				RedirectTo:  RedirectOnboarding,
				Message:     "Your request was rejected. Please choose another access method.",
				Reason:      ReasonSchoolRejected,
			}
		}
	}

	return Result{
		AccessLevel: models.AccessNone,
		RedirectTo:  RedirectOnboarding,
		Message:     "Please complete your account setup",
		Reason:      ReasonUnknownState,
	}
}

func grantFull(reason Reason) Result {
	return Result{
		AccessLevel:      models.AccessFull,
		IsActive:         true,
		CanAccessCourses: true,
		CanAccessQCM:     true,
		CanAccessVideos:  true,
		CanAccessExams:   true,
		Reason:           reason,
	}
}

// IsSubscriptionExpired reports whether an independent student's paid window
// has already ended. Students without an end date never expire.
func IsSubscriptionExpired(student *models.Student, now time.Time) bool {
	if student.AccessMethod == nil || *student.AccessMethod != models.AccessMethodIndependent {
		return false
	}
	if student.SubscriptionEnd == nil {
		return false
	}
	return !student.SubscriptionEnd.After(now)
}

// CanChangeAccessMethod reports whether the student may still switch between
// independent and school-linked access. Switching is a one-way commitment:
// an active paid or approved state locks the method in.
func CanChangeAccessMethod(student *models.Student, now time.Time) bool {
	if !student.OnboardingComplete {
		return true
	}

	if student.AccessMethod != nil {
		switch *student.AccessMethod {
		case models.AccessMethodSchoolLinked:
			return student.SchoolApproval != nil &&
				(*student.SchoolApproval == models.ApprovalPending ||
					*student.SchoolApproval == models.ApprovalRejected)
		case models.AccessMethodIndependent:
			return IsSubscriptionExpired(student, now)
		}
	}

	return false
}
