package dto

import (
	"time"

	"github.com/aminejml/permigo/internal/app/models"
)

// SchoolStudentResponse is one student row in a school's listings
type SchoolStudentResponse struct {
	StudentID        int64                  `json:"studentId"`
	Name             string                 `json:"name"`
	Identifier       string                 `json:"identifier"`
	ApprovalStatus   *models.ApprovalStatus `json:"approvalStatus,omitempty"`
	PermitType       *models.PermitType     `json:"permitType,omitempty"`
	IsActive         bool                   `json:"isActive"`
	SubscriptionEnd  *time.Time             `json:"subscriptionEnd,omitempty"`
	SchoolAttachedAt *time.Time             `json:"schoolAttachedAt,omitempty"`
	SchoolApprovedAt *time.Time             `json:"schoolApprovedAt,omitempty"`
}

// RejectStudentRequest carries an optional reason shown to the student
type RejectStudentRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ActivateStudentResponse summarizes a paid activation
type ActivateStudentResponse struct {
	StudentID       int64     `json:"studentId"`
	SubscriptionEnd time.Time `json:"subscriptionEnd"`
	SchoolRevenue   float64   `json:"schoolRevenue"`
	PlatformRevenue float64   `json:"platformRevenue"`
	TotalAmount     float64   `json:"totalAmount"`
}

// SchoolDashboardResponse aggregates a school's headline numbers
type SchoolDashboardResponse struct {
	SchoolID            int64   `json:"schoolId"`
	Name                string  `json:"name"`
	TotalStudents       int     `json:"totalStudents"`
	PendingRequests     int64   `json:"pendingRequests"`
	ActiveStudents      int64   `json:"activeStudents"`
	TotalEarned         float64 `json:"totalEarned"`
	TotalOwedToPlatform float64 `json:"totalOwedToPlatform"`
}

// RevenueEntryResponse is one ledger row in the school's revenue listing
type RevenueEntryResponse struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"studentId"`
	StudentName     string    `json:"studentName"`
	SchoolRevenue   float64   `json:"schoolRevenue"`
	PlatformRevenue float64   `json:"platformRevenue"`
	TotalAmount     float64   `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateEventRequest schedules a calendar entry for one of the school's students
type CreateEventRequest struct {
	StudentID int64      `json:"studentId" binding:"required,min=1"`
	Title     string     `json:"title" binding:"required,max=200"`
	StartsAt  time.Time  `json:"startsAt" binding:"required"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
	Location  *string    `json:"location,omitempty" binding:"omitempty,max=200"`
	Notes     *string    `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// StudentExamResultResponse is one student's aggregate in the school's exam
// report; students without completed attempts appear with zero counts
type StudentExamResultResponse struct {
	StudentID      int64      `json:"studentId"`
	StudentName    string     `json:"studentName"`
	TotalAttempts  int64      `json:"totalAttempts"`
	PassedAttempts int64      `json:"passedAttempts"`
	BestScore      *float64   `json:"bestScore,omitempty"`
	LastAttempt    *time.Time `json:"lastAttempt,omitempty"`
}

// SchoolExamStatsResponse is the school's exam performance report
type SchoolExamStatsResponse struct {
	Statistics     ExamStatisticsResponse      `json:"statistics"`
	StudentResults []StudentExamResultResponse `json:"studentResults"`
}

// SchoolSummaryResponse is the public directory view used during onboarding
type SchoolSummaryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
