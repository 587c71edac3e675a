package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminejml/permigo/internal/app/models"
)

func newTestJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "test-issuer",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:         42,
		Name:       "Test Student",
		Identifier: "student@example.com",
		Role:       models.RoleStudent,
	}
}

func TestGenerateTokenPair(t *testing.T) {
	service := newTestJWTService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, int((720 * time.Hour).Seconds()), refreshExpiresIn)

	// Refresh tokens are opaque, not JWTs
	_, err = service.ValidateToken(refreshToken)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	service := newTestJWTService(time.Hour)

	accessToken, _, _, _, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	claims, err := service.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidateTokenExpired(t *testing.T) {
	service := newTestJWTService(-time.Minute)

	accessToken, _, _, _, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	service := newTestJWTService(time.Hour)
	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "test-issuer",
	})

	accessToken, _, _, _, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestValidateAndExtractClaims(t *testing.T) {
	service := newTestJWTService(time.Hour)

	_, err := service.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	accessToken, _, _, _, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	claims, err := service.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestHashRefreshToken(t *testing.T) {
	digest := HashRefreshToken("some-refresh-token")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashRefreshToken("some-refresh-token"))
	assert.NotEqual(t, digest, HashRefreshToken("another-token"))
}

func TestExtractBearerToken(t *testing.T) {
	testCases := []struct {
		name        string
		header      string
		expected    string
		expectError bool
	}{
		{name: "valid bearer header", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "empty header", header: "", expectError: true},
		{name: "missing scheme", header: "abc.def.ghi", expectError: true},
		{name: "wrong scheme", header: "Basic abc.def.ghi", expectError: true},
		{name: "lowercase scheme rejected", header: "bearer abc.def.ghi", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := ExtractBearerToken(tc.header)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, token)
		})
	}
}
