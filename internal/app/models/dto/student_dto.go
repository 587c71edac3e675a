package dto

import (
	"time"

	"github.com/aminejml/permigo/internal/app/models"
)

// ChooseAccessMethodRequest selects how the student will pay for access
type ChooseAccessMethodRequest struct {
	AccessMethod models.AccessMethod `json:"accessMethod" binding:"required,oneof=independent school_linked"`
	PermitType   *models.PermitType  `json:"permitType,omitempty" binding:"omitempty,oneof=A B C"`
}

// LinkSchoolRequest attaches a school-linked student to a school
type LinkSchoolRequest struct {
	SchoolID int64 `json:"schoolId" binding:"required,min=1"`
}

// UpdateFCMTokenRequest stores the device token for push notifications
type UpdateFCMTokenRequest struct {
	FCMToken string `json:"fcmToken" binding:"required"`
}

// AccessStatusResponse is the resolved access state returned to clients
type AccessStatusResponse struct {
	AccessLevel      models.AccessLevel `json:"accessLevel"`
	IsActive         bool               `json:"isActive"`
	CanAccessCourses bool               `json:"canAccessCourses"`
	CanAccessQCM     bool               `json:"canAccessQcm"`
	CanAccessVideos  bool               `json:"canAccessVideos"`
	CanAccessExams   bool               `json:"canAccessExams"`
	RedirectTo       string             `json:"redirectTo,omitempty"`
	Message          string             `json:"message,omitempty"`
	Reason           string             `json:"reason"`
	CanChangeMethod  bool               `json:"canChangeMethod"`
}

// StudentProfileResponse is the full student profile returned by /me
type StudentProfileResponse struct {
	ID                 int64                `json:"id"`
	Name               string               `json:"name"`
	Identifier         string               `json:"identifier"`
	StudentType        models.StudentType   `json:"studentType"`
	AccessMethod       *models.AccessMethod `json:"accessMethod,omitempty"`
	OnboardingComplete bool                 `json:"onboardingComplete"`
	PaymentVerified    bool                 `json:"paymentVerified"`
	SubscriptionEnd    *time.Time           `json:"subscriptionEnd,omitempty"`
	SchoolID           *int64               `json:"schoolId,omitempty"`
	SchoolName         *string              `json:"schoolName,omitempty"`
	PermitType         *models.PermitType   `json:"permitType,omitempty"`
	Access             AccessStatusResponse `json:"access"`
}

// SchoolRequestStatusResponse reports the student's latest linkage request
type SchoolRequestStatusResponse struct {
	SchoolID        *int64     `json:"schoolId,omitempty"`
	SchoolName      string     `json:"schoolName"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	RequestedAt     time.Time  `json:"requestedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
}

// StudentEventResponse is one calendar entry visible to the student
type StudentEventResponse struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	StartsAt time.Time  `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
	Location *string    `json:"location,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}
