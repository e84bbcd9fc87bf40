package auth

import (
	"testing"
	"time"

	"real-estate-marketplace/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	token, err := ts.Issue("Alice", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestTokenService_VerifyExpired(t *testing.T) {
	ts := NewTokenService("test-secret", -time.Minute)

	token, err := ts.Issue("Alice", "alice@example.com")
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestTokenService_VerifyTampered(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	token, err := ts.Issue("Alice", "alice@example.com")
	require.NoError(t, err)

	_, err = ts.Verify(token + "x")
	assert.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestTokenService_VerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-one", time.Hour).Issue("Alice", "alice@example.com")
	require.NoError(t, err)

	_, err = NewTokenService("secret-two", time.Hour).Verify(token)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestTokenService_VerifyGarbage(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	_, err := ts.Verify("not-a-token")
	assert.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}
