package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quimipool/quimipool/internal/domain"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", time.Hour)
	require.NoError(t, err)

	signed, err := svc.Generate(domain.Principal{ExternalID: "emp-1", Email: "ana@quimipool.mx"})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	principal, err := svc.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", principal.ExternalID)
	assert.Equal(t, "ana@quimipool.mx", principal.Email)
}

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", time.Hour)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTService("test-secret", time.Nanosecond)
	require.NoError(t, err)

	signed, err := svc.Generate(domain.Principal{ExternalID: "emp-1"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-b", time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Generate(domain.Principal{ExternalID: "emp-1"})
	require.NoError(t, err)

	_, err = verifier.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc, err := NewJWTService("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
