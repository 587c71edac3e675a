package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Secret123!", hash)

	// bcrypt salts, so the same input never hashes the same twice
	second, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "Secret123!"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
	assert.False(t, CheckPassword(hash, ""))
	assert.False(t, CheckPassword("not-a-hash", "Secret123!"))
}
