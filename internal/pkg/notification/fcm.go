// Package notification sends push messages to student devices through
// Firebase Cloud Messaging. The service degrades to a no-op when no
// credentials are configured, so local development never needs Firebase.
package notification

import (
	"context"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/aminejml/permigo/internal/pkg/logger"
)

// TokenInvalidator clears a stale device token from storage
type TokenInvalidator interface {
	ClearFCMTokenByValue(ctx context.Context, token string) error
}

// Service wraps the FCM messaging client
type Service struct {
	client      *messaging.Client
	invalidator TokenInvalidator
}

// NewService initializes the FCM client from a service account file.
// An empty credentials path returns a disabled service.
func NewService(ctx context.Context, credentialsFile string, invalidator TokenInvalidator) (*Service, error) {
	if credentialsFile == "" {
		logger.Warn().Msg("FCM credentials not configured, push notifications disabled")
		return &Service{invalidator: invalidator}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info().Msg("FCM messaging client initialized")
	return &Service{client: client, invalidator: invalidator}, nil
}

// Enabled reports whether the service can actually deliver messages
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Send delivers one notification to a device token. A nil or empty token is
// silently ignored. Stale tokens are cleared from storage so they are not
// retried forever.
func (s *Service) Send(ctx context.Context, token *string, title, body string, data map[string]string) {
	if s.client == nil || token == nil || *token == "" {
		return
	}

	msg := &messaging.Message{
		Token: *token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.client.Send(sendCtx, msg); err != nil {
		if isStaleTokenError(err) {
			logger.Info().Msg("Clearing stale FCM token")
			if s.invalidator != nil {
				if clearErr := s.invalidator.ClearFCMTokenByValue(ctx, *token); clearErr != nil {
					logger.Error().Err(clearErr).Msg("Failed to clear stale FCM token")
				}
			}
			return
		}
		logger.Error().Err(err).Str("title", title).Msg("Failed to send push notification")
	}
}

// SendAsync delivers a notification without blocking the caller. Delivery
// failures are logged, never surfaced to the triggering request.
func (s *Service) SendAsync(token *string, title, body string, data map[string]string) {
	if s.client == nil || token == nil || *token == "" {
		return
	}

	go s.Send(context.Background(), token, title, body, data)
}

func isStaleTokenError(err error) bool {
	if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
		return true
	}
	// Older server responses surface as plain errors
	return strings.Contains(err.Error(), "registration-token-not-registered")
}
