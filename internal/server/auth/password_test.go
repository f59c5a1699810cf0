package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "password123", hash, "hash must not contain the plaintext")
	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("password123")
	require.NoError(t, err)
	h2, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "bcrypt must salt each hash")
}

func TestHashPassword_TooLong(t *testing.T) {
	// bcrypt rejects inputs over 72 bytes
	_, err := HashPassword(strings.Repeat("a", 100))
	require.Error(t, err)
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("password123", "not-a-bcrypt-hash"))
}
