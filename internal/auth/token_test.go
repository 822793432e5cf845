package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 10)

	token, expiresAt, err := tm.GenerateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, claims.Subject)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 10).GenerateToken()
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 10).ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("letmein", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "letmein"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
