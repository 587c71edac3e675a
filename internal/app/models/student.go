package models

import (
	"time"
)

// Student defines the student model based on the 'students' table.
// One-to-one with a User of role 'student'; lifecycle is driven by onboarding
// choices, school activation, or payment completion.
type Student struct {
	ID                 int64               `json:"id" db:"id"`
	UserID             int64               `json:"userId" db:"user_id"`
	StudentType        StudentType         `json:"studentType" db:"student_type"`
	AccessMethod       *AccessMethod       `json:"accessMethod,omitempty" db:"access_method"`
	OnboardingComplete bool                `json:"onboardingComplete" db:"onboarding_complete"`
	PaymentVerified    bool                `json:"paymentVerified" db:"payment_verified"`
	SubscriptionType   *SubscriptionType   `json:"subscriptionType,omitempty" db:"subscription_type"`
	SubscriptionStatus *SubscriptionStatus `json:"subscriptionStatus,omitempty" db:"subscription_status"`
	SubscriptionStart  *time.Time          `json:"subscriptionStart,omitempty" db:"subscription_start"`
	SubscriptionEnd    *time.Time          `json:"subscriptionEnd,omitempty" db:"subscription_end"`
	SchoolID           *int64              `json:"schoolId,omitempty" db:"school_id"`
	SchoolApproval     *ApprovalStatus     `json:"schoolApprovalStatus,omitempty" db:"school_approval_status"`
	SchoolAttachedAt   *time.Time          `json:"schoolAttachedAt,omitempty" db:"school_attached_at"`
	SchoolApprovedAt   *time.Time          `json:"schoolApprovedAt,omitempty" db:"school_approved_at"`
	IsActive           bool                `json:"isActive" db:"is_active"`
	AccessLevel        AccessLevel         `json:"accessLevel" db:"access_level"`
	PermitType         *PermitType         `json:"permitType,omitempty" db:"permit_type"`
	FCMToken           *string             `json:"-" db:"fcm_token"`

	// Relations (populated when needed)
	User   *User   `json:"user,omitempty"`
	School *School `json:"school,omitempty"`
}

// SchoolStudentRequest records a student's linkage attempt to a school
type SchoolStudentRequest struct {
	ID              int64          `json:"id" db:"id"`
	StudentID       int64          `json:"studentId" db:"student_id"`
	SchoolID        *int64         `json:"schoolId,omitempty" db:"school_id"`
	SchoolName      string         `json:"schoolName" db:"school_name"`
	Status          ApprovalStatus `json:"status" db:"status"`
	RejectionReason *string        `json:"rejectionReason,omitempty" db:"rejection_reason"`
	RequestedAt     time.Time      `json:"requestedAt" db:"requested_at"`
	ReviewedAt      *time.Time     `json:"reviewedAt,omitempty" db:"reviewed_at"`
}

// StudentEvent is a calendar entry created by a school for a student
type StudentEvent struct {
	ID        int64      `json:"id" db:"id"`
	StudentID int64      `json:"studentId" db:"student_id"`
	Title     string     `json:"title" db:"title"`
	StartsAt  time.Time  `json:"startsAt" db:"starts_at"`
	EndsAt    *time.Time `json:"endsAt,omitempty" db:"ends_at"`
	Location  *string    `json:"location,omitempty" db:"location"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
}
