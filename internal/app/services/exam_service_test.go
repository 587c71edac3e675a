package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/pkg/apperrors"
)

func TestEnsureScorable(t *testing.T) {
	completedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("open session owned by the student", func(t *testing.T) {
		session := &models.ExamSession{ID: 1, StudentID: 7}
		assert.NoError(t, ensureScorable(session, 7))
	})

	t.Run("session of another student", func(t *testing.T) {
		session := &models.ExamSession{ID: 1, StudentID: 7}
		assert.ErrorIs(t, ensureScorable(session, 8), apperrors.ErrPermissionDenied)
	})

	t.Run("already completed session", func(t *testing.T) {
		session := &models.ExamSession{ID: 1, StudentID: 7, CompletedAt: &completedAt}
		assert.ErrorIs(t, ensureScorable(session, 7), apperrors.ErrExamAlreadyScored)
	})

	t.Run("ownership is checked before completion", func(t *testing.T) {
		session := &models.ExamSession{ID: 1, StudentID: 7, CompletedAt: &completedAt}
		assert.ErrorIs(t, ensureScorable(session, 8), apperrors.ErrPermissionDenied)
	})
}
