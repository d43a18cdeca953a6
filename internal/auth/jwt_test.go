package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"
const testIssuer = "forum-backend"

func newTestSigner(t *testing.T) *TokenSigner {
	t.Helper()
	s, err := NewTokenSigner(testSecret, testIssuer, time.Hour)
	require.NoError(t, err)
	return s
}

func TestNewTokenSignerRequiresSecret(t *testing.T) {
	_, err := NewTokenSigner("", testIssuer, time.Hour)
	require.Error(t, err)
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	s := newTestSigner(t)

	token, exp, err := s.IssueToken("64f0c2", "smokey")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := s.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c2", claims.ID)
	assert.Equal(t, "smokey", claims.Username)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt)
}

// expiredTokenString signs a token whose expiry has already elapsed; the
// signer itself refuses non-positive TTLs, so it is built with the raw
// library and the same secret.
func expiredTokenString(t *testing.T) string {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	claims := jwt.MapClaims{
		"iss":      testIssuer,
		"id":       "64f0c2",
		"username": "smokey",
		"iat":      past.Add(-time.Hour).Unix(),
		"exp":      past.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestParseAndValidateExpiredToken(t *testing.T) {
	s := newTestSigner(t)
	_, err := s.ParseAndValidate(expiredTokenString(t))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAndValidateWrongSecret(t *testing.T) {
	s := newTestSigner(t)

	other, err := NewTokenSigner("a-different-secret", testIssuer, time.Hour)
	require.NoError(t, err)
	token, _, err := other.IssueToken("64f0c2", "smokey")
	require.NoError(t, err)

	_, err = s.ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestParseAndValidateWrongIssuer(t *testing.T) {
	s := newTestSigner(t)

	other, err := NewTokenSigner(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)
	token, _, err := other.IssueToken("64f0c2", "smokey")
	require.NoError(t, err)

	_, err = s.ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAndValidateGarbage(t *testing.T) {
	s := newTestSigner(t)
	_, err := s.ParseAndValidate("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAndValidateRejectsNoneAlgorithm(t *testing.T) {
	s := newTestSigner(t)

	claims := jwt.MapClaims{
		"iss":      testIssuer,
		"id":       "64f0c2",
		"username": "smokey",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
