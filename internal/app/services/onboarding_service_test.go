package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aminejml/permigo/internal/app/models"
)

func methodPtr(m models.AccessMethod) *models.AccessMethod       { return &m }
func approvalPtr(s models.ApprovalStatus) *models.ApprovalStatus { return &s }
func timePtr(t time.Time) *time.Time                             { return &t }

func TestMethodSelectionLocked(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		student *models.Student
		want    bool
	}{
		{
			name:    "onboarding incomplete is never locked",
			student: &models.Student{},
			want:    false,
		},
		{
			name: "school linked pending can re-choose",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
				SchoolApproval:     approvalPtr(models.ApprovalPending),
			},
			want: false,
		},
		{
			name: "school linked rejected can re-choose",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
				SchoolApproval:     approvalPtr(models.ApprovalRejected),
			},
			want: false,
		},
		{
			// An approved school student stays locked even when the new
			// selection repeats the current method.
			name: "school linked approved is locked",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodSchoolLinked),
				SchoolApproval:     approvalPtr(models.ApprovalApproved),
			},
			want: true,
		},
		{
			name: "independent with running subscription is locked",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				SubscriptionEnd:    timePtr(now.Add(time.Hour)),
			},
			want: true,
		},
		{
			name: "independent with expired subscription can re-choose",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
				SubscriptionEnd:    timePtr(now.Add(-time.Hour)),
			},
			want: false,
		},
		{
			name: "independent lifetime is locked",
			student: &models.Student{
				OnboardingComplete: true,
				AccessMethod:       methodPtr(models.AccessMethodIndependent),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, methodSelectionLocked(tt.student, now))
		})
	}
}
