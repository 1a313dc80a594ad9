package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("gulab-jamun-42")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("gulab-jamun-42", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais-mot-de-passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("secret", "pas-un-hash")
	assert.Error(t, err)
}
