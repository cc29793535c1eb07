package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 24, 4)
	assert.Error(t, err)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", 24, 4)
	require.NoError(t, err)

	token, err := svc.GenerateAdminToken(7, "admin@example.com")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID) // JTI
}

func TestRespondentTokenRoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", 24, 4)
	require.NoError(t, err)

	token, err := svc.GenerateRespondentToken(100, 42, "anna@example.com")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(100), claims.AccessRecordID)
	assert.Equal(t, uint(42), claims.TestID)
	assert.Equal(t, RoleRespondent, claims.Role)
	assert.Zero(t, claims.UserID)
}

func TestParseToken_RejectsForeignKey(t *testing.T) {
	issuer, err := NewJWTService("secret-a", 24, 4)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-b", 24, 4)
	require.NoError(t, err)

	token, err := issuer.GenerateAdminToken(1, "admin@example.com")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	svc, err := NewJWTService("test-secret", 24, 4)
	require.NoError(t, err)

	_, err = svc.ParseToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
