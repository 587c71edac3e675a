package dto

import (
	"time"

	"github.com/aminejml/permigo/internal/app/models"
)

// CreateSchoolRequest provisions a school account and its login user
type CreateSchoolRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=150"`
	OwnerName  string `json:"ownerName" binding:"required,min=2,max=100"`
	Identifier string `json:"identifier" binding:"required,min=4,max=50"`
	Password   string `json:"password" binding:"required,min=6"`
}

// AdminSchoolResponse is one school row in the admin listing
type AdminSchoolResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	OwnerName           string  `json:"ownerName"`
	Identifier          string  `json:"identifier"`
	TotalStudents       int     `json:"totalStudents"`
	TotalEarned         float64 `json:"totalEarned"`
	TotalOwedToPlatform float64 `json:"totalOwedToPlatform"`
	Active              bool    `json:"active"`
}

// AdminStudentResponse is one student row in the admin listing
type AdminStudentResponse struct {
	ID                 int64                `json:"id"`
	Name               string               `json:"name"`
	Identifier         string               `json:"identifier"`
	AccessMethod       *models.AccessMethod `json:"accessMethod,omitempty"`
	OnboardingComplete bool                 `json:"onboardingComplete"`
	IsActive           bool                 `json:"isActive"`
	SchoolID           *int64               `json:"schoolId,omitempty"`
	SubscriptionEnd    *time.Time           `json:"subscriptionEnd,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
}

// SetSchoolActiveRequest toggles whether a school can operate
type SetSchoolActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// VerifyPaymentRequest marks an independent student's payment as received
type VerifyPaymentRequest struct {
	SubscriptionType models.SubscriptionType `json:"subscriptionType" binding:"required,oneof=monthly yearly lifetime"`
}

// RecentExamResponse is one recently completed attempt in the admin report
type RecentExamResponse struct {
	SessionID   int64      `json:"sessionId"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Score       *float64   `json:"score,omitempty"`
	Passed      *bool      `json:"passed,omitempty"`
	StudentID   int64      `json:"studentId"`
	StudentName string     `json:"studentName"`
}

// AdminExamStatsResponse is the platform-wide exam report
type AdminExamStatsResponse struct {
	Statistics  ExamStatisticsResponse `json:"statistics"`
	RecentExams []RecentExamResponse   `json:"recentExams"`
}

// PlatformStatsResponse aggregates platform-wide numbers for the admin dashboard
type PlatformStatsResponse struct {
	TotalStudents    int64   `json:"totalStudents"`
	ActiveStudents   int64   `json:"activeStudents"`
	TotalSchools     int64   `json:"totalSchools"`
	ActiveSchools    int64   `json:"activeSchools"`
	PlatformRevenue  float64 `json:"platformRevenue"`
	TotalTransacted  float64 `json:"totalTransacted"`
	RevenueLast30d   float64 `json:"revenueLast30Days"`
	ExamSessionCount int64   `json:"examSessionCount"`
}
