package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/config"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain"
)

func testManager(accessTTL time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-that-is-long-enough-123",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "rvutrack-test",
	})
}

func testClaims() *domain.Claims {
	return &domain.Claims{
		UserID: uuid.New(),
		Email:  "doc@example.com",
		Name:   "Dr. Example",
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	m := testManager(15 * time.Minute)
	in := testClaims()

	pair, err := m.GenerateTokenPair(in)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	out, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.Name, out.Name)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	m := testManager(15 * time.Minute)

	pair, err := m.GenerateTokenPair(testClaims())
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testManager(-1 * time.Minute)

	pair, err := m.GenerateTokenPair(testClaims())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	m := testManager(15 * time.Minute)
	other := NewJWTManager(config.JWTConfig{
		Secret:          "another-secret-entirely-456",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "rvutrack-test",
	})

	pair, err := other.GenerateTokenPair(testClaims())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := testManager(15 * time.Minute)

	_, err := m.ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
