package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/domain/errs"
)

const testSecret = "test-secret"

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator(testSecret, 15*time.Minute, 30*24*time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	a := newTestAuthenticator()

	token, err := a.GenerateAccessToken(42)
	require.NoError(t, err)

	claims, err := a.DecodeToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID, "jti must be set")
}

func TestDecodeRejectsWrongTokenType(t *testing.T) {
	a := newTestAuthenticator()

	// Valid signature, wrong class: an access token must never pass as a
	// refresh token and vice versa.
	accessToken, err := a.GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = a.DecodeToken(accessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	refreshToken, err := a.GenerateRefreshToken(42)
	require.NoError(t, err)

	_, err = a.DecodeToken(refreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestDecodeRejectsExpiredToken(t *testing.T) {
	a := NewJWTAuthenticator(testSecret, -time.Minute, -time.Minute)

	token, err := a.GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = a.DecodeToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	a := newTestAuthenticator()
	other := NewJWTAuthenticator("other-secret", 15*time.Minute, 30*24*time.Hour)

	token, err := a.GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = other.DecodeToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	a := newTestAuthenticator()

	_, err := a.DecodeToken("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestTokensCarryDistinctIDs(t *testing.T) {
	a := newTestAuthenticator()

	first, err := a.GenerateAccessToken(42)
	require.NoError(t, err)
	second, err := a.GenerateAccessToken(42)
	require.NoError(t, err)

	firstClaims, err := a.DecodeToken(first, TokenTypeAccess)
	require.NoError(t, err)
	secondClaims, err := a.DecodeToken(second, TokenTypeAccess)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
