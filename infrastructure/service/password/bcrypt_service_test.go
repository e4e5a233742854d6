package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptService_RoundTrip(t *testing.T) {
	svc := NewBcryptService(bcrypt.MinCost)

	hash, err := svc.Hash("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	ok, err := svc.Verify("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptService_MismatchIsNotError(t *testing.T) {
	svc := NewBcryptService(bcrypt.MinCost)

	hash, err := svc.Hash("s3cret")
	require.NoError(t, err)

	ok, err := svc.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptService_EmptyInputs(t *testing.T) {
	svc := NewBcryptService(bcrypt.MinCost)

	_, err := svc.Hash("")
	assert.Error(t, err)

	_, err = svc.Verify("", "hash")
	assert.Error(t, err)

	_, err = svc.Verify("pass", "not-a-bcrypt-hash")
	assert.Error(t, err)
}
