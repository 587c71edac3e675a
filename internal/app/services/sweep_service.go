package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aminejml/permigo/internal/app/repositories"
	"github.com/aminejml/permigo/internal/pkg/logger"
	"github.com/aminejml/permigo/internal/pkg/notification"
)

// SweepService runs the scheduled maintenance passes: expiring lapsed
// subscriptions and warning students whose paid window is about to end
type SweepService struct {
	studentRepo *repositories.StudentRepository
	notifier    *notification.Service
	warningDays int
}

// NewSweepService creates a new SweepService
func NewSweepService(studentRepo *repositories.StudentRepository, notifier *notification.Service, warningDays int) *SweepService {
	return &SweepService{
		studentRepo: studentRepo,
		notifier:    notifier,
		warningDays: warningDays,
	}
}

// ExpireLapsed flips every independent student whose paid window has passed
// to expired and notifies them. The update is a single statement, so a crash
// between update and notification can only lose notifications, never leave a
// student half-expired.
func (s *SweepService) ExpireLapsed(ctx context.Context) (int, error) {
	expired, err := s.studentRepo.ExpireLapsedSubscriptions(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	for _, student := range expired {
		s.notifier.SendAsync(student.FCMToken,
			"Subscription expired",
			"Your subscription has ended. Renew to keep full access.",
			map[string]string{"type": "subscription_expired"})
	}

	return len(expired), nil
}

// WarnExpiring notifies students whose subscription ends within the
// configured warning window
func (s *SweepService) WarnExpiring(ctx context.Context) (int, error) {
	now := time.Now()
	until := now.AddDate(0, 0, s.warningDays)

	expiring, err := s.studentRepo.ListExpiringSubscriptions(ctx, now, until)
	if err != nil {
		return 0, err
	}

	for _, student := range expiring {
		daysLeft := int(time.Until(student.SubscriptionEnd).Hours()/24) + 1
		s.notifier.SendAsync(student.FCMToken,
			"Subscription ending soon",
			fmt.Sprintf("Your subscription ends in %d day(s). Renew to keep full access.", daysLeft),
			map[string]string{"type": "subscription_expiring"})
	}

	if len(expiring) > 0 {
		logger.Info().Int("count", len(expiring)).Msg("Sent expiry warnings")
	}

	return len(expiring), nil
}
