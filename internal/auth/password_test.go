package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexcoatings/backoffice/internal/auth"
)

func TestHashPassword(t *testing.T) {
	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := auth.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)
		assert.True(t, auth.CheckPassword("correct horse battery staple", hash))
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		hash, err := auth.HashPassword("password1")
		require.NoError(t, err)
		assert.False(t, auth.CheckPassword("password2", hash))
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		h1, err := auth.HashPassword("password1")
		require.NoError(t, err)
		h2, err := auth.HashPassword("password1")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("empty hash never verifies", func(t *testing.T) {
		assert.False(t, auth.CheckPassword("anything", ""))
	})
}
