package models

// Role defines the user role type
type Role string

const (
	RoleStudent Role = "student"
	RoleSchool  Role = "school"
	RoleAdmin   Role = "admin"
)

// StudentType distinguishes self-paying students from school-sponsored ones
type StudentType string

const (
	StudentTypeIndependent StudentType = "independent"
	StudentTypeAttached    StudentType = "attached_to_school"
)

// AccessMethod is the onboarding choice a student commits to
type AccessMethod string

const (
	AccessMethodIndependent  AccessMethod = "independent"
	AccessMethodSchoolLinked AccessMethod = "school_linked"
)

// ApprovalStatus tracks a school-linked student's sponsorship state
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// AccessLevel is the coarse permission tier derived from student state
type AccessLevel string

const (
	AccessNone    AccessLevel = "none"
	AccessLimited AccessLevel = "limited"
	AccessFull    AccessLevel = "full"
)

// SubscriptionStatus tracks a paid subscription's lifecycle
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// SubscriptionType selects the paid subscription window
type SubscriptionType string

const (
	SubscriptionMonthly  SubscriptionType = "monthly"
	SubscriptionYearly   SubscriptionType = "yearly"
	SubscriptionLifetime SubscriptionType = "lifetime"
)

// PermitType is the driving permit category a student prepares for
type PermitType string

const (
	PermitA PermitType = "A"
	PermitB PermitType = "B"
	PermitC PermitType = "C"
)
