package models

import (
	"time"
)

// School defines the school model based on the 'schools' table.
// One-to-one with a User of role 'school'.
type School struct {
	ID                  int64   `json:"id" db:"id"`
	UserID              int64   `json:"userId" db:"user_id"`
	Name                string  `json:"name" db:"name"`
	TotalStudents       int     `json:"totalStudents" db:"total_students"`
	TotalEarned         float64 `json:"totalEarned" db:"total_earned"`
	TotalOwedToPlatform float64 `json:"totalOwedToPlatform" db:"total_owed_to_platform"`
	Active              bool    `json:"active" db:"active"`

	User *User `json:"user,omitempty"`
}

// RevenueEntry is one immutable ledger row written per student activation
type RevenueEntry struct {
	ID              int64     `json:"id" db:"id"`
	StudentID       int64     `json:"studentId" db:"student_id"`
	SchoolID        int64     `json:"schoolId" db:"school_id"`
	SchoolRevenue   float64   `json:"schoolRevenue" db:"school_revenue"`
	PlatformRevenue float64   `json:"platformRevenue" db:"platform_revenue"`
	TotalAmount     float64   `json:"totalAmount" db:"total_amount"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
