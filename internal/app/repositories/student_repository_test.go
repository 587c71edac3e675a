package repositories

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminejml/permigo/internal/app/models"
)

func TestSetAccessMethodBuilder(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	t.Run("permit type written when provided", func(t *testing.T) {
		permit := models.PermitB
		sql, args, err := setAccessMethodBuilder(sb, 42, models.AccessMethodSchoolLinked, &permit, models.StudentTypeAttached, false).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "permit_type")
		assert.Contains(t, args, &permit)
	})

	t.Run("permit type untouched when absent", func(t *testing.T) {
		// A re-choice without a permit keeps the previously chosen one.
		sql, _, err := setAccessMethodBuilder(sb, 42, models.AccessMethodIndependent, nil, models.StudentTypeIndependent, true).ToSql()
		require.NoError(t, err)
		assert.NotContains(t, sql, "permit_type")
		assert.Contains(t, sql, "access_method")
		assert.Contains(t, sql, "onboarding_complete")
	})
}
