package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aminejml/permigo/internal/app/models"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func methodPtr(m models.AccessMethod) *models.AccessMethod       { return &m }
func approvalPtr(s models.ApprovalStatus) *models.ApprovalStatus { return &s }
func statusPtr(s models.SubscriptionStatus) *models.SubscriptionStatus {
	return &s
}
func timePtr(t time.Time) *time.Time { return &t }

func TestCalculateOnboardingIncomplete(t *testing.T) {
	// Onboarding gate wins regardless of any other field.
	students := []*models.Student{
		{},
		{
			AccessMethod:       methodPtr(models.AccessMethodIndependent),
			PaymentVerified:    true,
			SubscriptionStatus: statusPtr(models.SubscriptionActive),
		},
		{
			AccessMethod:   methodPtr(models.AccessMethodSchoolLinked),
			SchoolApproval: approvalPtr(models.ApprovalApproved),
		},
	}

	for _, student := range students {
		result := Calculate(student, now)
		assert.Equal(t, models.AccessNone, result.AccessLevel)
		assert.False(t, result.IsActive)
		assert.Equal(t, RedirectOnboarding, result.RedirectTo)
		assert.Equal(t, ReasonOnboardingIncomplete, result.Reason)
	}
}

func TestCalculateIndependent(t *testing.T) {
	tests := []struct {
		name       string
		student    *models.Student
		wantActive bool
		wantReason Reason
	}{
		{
			name: "paid active without end date",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				PaymentVerified:    true,
				SubscriptionStatus: statusPtr(models.SubscriptionActive),
			},
			wantActive: true,
			wantReason: ReasonPaidActive,
		},
		{
			name: "paid active with future end date",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				PaymentVerified:    true,
				SubscriptionStatus: statusPtr(models.SubscriptionActive),
				SubscriptionEnd:    timePtr(now.Add(24 * time.Hour)),
			},
			wantActive: true,
			wantReason: ReasonPaidActive,
		},
		{
			name: "subscription end in the past",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				PaymentVerified:    true,
				SubscriptionStatus: statusPtr(models.SubscriptionActive),
				SubscriptionEnd:    timePtr(now.Add(-time.Hour)),
			},
			wantActive: false,
			wantReason: ReasonUnpaid,
		},
		{
			name: "payment not verified",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				SubscriptionStatus: statusPtr(models.SubscriptionActive),
			},
			wantActive: false,
			wantReason: ReasonUnpaid,
		},
		{
			name: "subscription expired status",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				PaymentVerified:    true,
				SubscriptionStatus: statusPtr(models.SubscriptionExpired),
			},
			wantActive: false,
			wantReason: ReasonUnpaid,
		},
		{
			name: "no subscription at all",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
			},
			wantActive: false,
			wantReason: ReasonUnpaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Calculate(tt.student, now)
			assert.Equal(t, tt.wantActive, result.IsActive)
			assert.Equal(t, tt.wantReason, result.Reason)
			if tt.wantActive {
				assert.Equal(t, models.AccessFull, result.AccessLevel)
				assert.True(t, result.CanAccessExams)
				assert.Empty(t, result.RedirectTo)
			} else {
				assert.Equal(t, models.AccessLimited, result.AccessLevel)
				assert.False(t, result.CanAccessExams)
				assert.Equal(t, RedirectPayment, result.RedirectTo)
			}
		})
	}
}

func TestCalculateSchoolLinked(t *testing.T) {
	base := func(status models.ApprovalStatus) *models.Student {
		return &models.Student{
			OnboardingComplete: true,
			AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
			SchoolApproval:     approvalPtr(status),
		}
	}

	pending := Calculate(base(models.ApprovalPending), now)
	assert.Equal(t, models.AccessLimited, pending.AccessLevel)
	assert.False(t, pending.IsActive)
	assert.Empty(t, pending.RedirectTo)
	assert.Equal(t, ReasonSchoolPending, pending.Reason)

	approved := Calculate(base(models.ApprovalApproved), now)
	assert.Equal(t, models.AccessFull, approved.AccessLevel)
	assert.True(t, approved.IsActive)
	assert.True(t, approved.CanAccessCourses)
	assert.True(t, approved.CanAccessQCM)
	assert.True(t, approved.CanAccessVideos)
	assert.True(t, approved.CanAccessExams)
	assert.Equal(t, ReasonSchoolApproved, approved.Reason)

	rejected := Calculate(base(models.ApprovalRejected), now)
	assert.Equal(t, models.AccessNone, rejected.AccessLevel)
	assert.False(t, rejected.IsActive)
	assert.Equal(t, RedirectOnboarding, rejected.RedirectTo)
	assert.Equal(t, ReasonSchoolRejected, rejected.Reason)
}

func TestCalculateUnknownState(t *testing.T) {
	// A completed onboarding with no method recorded should hit the
	// fallback rather than panic or grant anything.
	result := Calculate(&models.Student{OnboardingComplete: true}, now)
	assert.Equal(t, models.AccessNone, result.AccessLevel)
	assert.False(t, result.IsActive)
	assert.Equal(t, RedirectOnboarding, result.RedirectTo)
	assert.Equal(t, ReasonUnknownState, result.Reason)

	// School-linked with no approval status recorded falls through too.
	result = Calculate(&models.Student{
		OnboardingComplete: true,
		AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
	}, now)
	assert.Equal(t, ReasonUnknownState, result.Reason)
}

func TestIsSubscriptionExpired(t *testing.T) {
	assert.False(t, IsSubscriptionExpired(&models.Student{
		AccessMethod: methodPtr(models.AccessMethodSchoolLinked),
	}, now))

	assert.False(t, IsSubscriptionExpired(&models.Student{
		AccessMethod: methodPtr(models.AccessMethodIndependent),
	}, now))

	assert.False(t, IsSubscriptionExpired(&models.Student{
		AccessMethod:    methodPtr(models.AccessMethodIndependent),
		SubscriptionEnd: timePtr(now.Add(time.Minute)),
	}, now))

	assert.True(t, IsSubscriptionExpired(&models.Student{
		AccessMethod:    methodPtr(models.AccessMethodIndependent),
		SubscriptionEnd: timePtr(now),
	}, now))

	assert.True(t, IsSubscriptionExpired(&models.Student{
		AccessMethod:    methodPtr(models.AccessMethodIndependent),
		SubscriptionEnd: timePtr(now.Add(-time.Minute)),
	}, now))
}

func TestCanChangeAccessMethod(t *testing.T) {
	tests := []struct {
		name    string
		student *models.Student
		want    bool
	}{
		{
			name:    "onboarding incomplete",
			student: &models.Student{},
			want:    true,
		},
		{
			name: "school linked pending",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
				SchoolApproval:     approvalPtr(models.ApprovalPending),
			},
			want: true,
		},
		{
			name: "school linked rejected",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
				SchoolApproval:     approvalPtr(models.ApprovalRejected),
			},
			want: true,
		},
		{
			name: "school linked approved",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
				SchoolApproval:     approvalPtr(models.ApprovalApproved),
			},
			want: false,
		},
		{
			name: "independent with expired subscription",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				SubscriptionEnd:    timePtr(now.Add(-time.Hour)),
			},
			want: true,
		},
		{
			name: "independent with running subscription",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				SubscriptionEnd:    timePtr(now.Add(time.Hour)),
			},
			want: false,
		},
		{
			name: "independent lifetime",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanChangeAccessMethod(tt.student, now))
		})
	}
}
