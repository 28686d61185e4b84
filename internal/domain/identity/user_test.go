package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with normalized fields", func(t *testing.T) {
		user, err := NewUser("  Hana.Lin ", "Hana@Example.com", "secret-pw-1")
		require.NoError(t, err)

		assert.Equal(t, "hana.lin", user.Username)
		assert.Equal(t, "hana@example.com", user.Email)
		assert.NotEmpty(t, user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret-pw-1"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser("ab", "a@example.com", "secret-pw-1")
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("hana", "not-an-email", "secret-pw-1")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("hana", "a@example.com", "short")
		assert.Error(t, err)
	})
}

func TestNewProvisionedUser(t *testing.T) {
	user, err := NewProvisionedUser("line_U4af4980629abcdef01", "line_U4af4980629@line.local")
	require.NoError(t, err)

	assert.Equal(t, "line_u4af4980629abcdef01", user.Username)
	assert.NotEmpty(t, user.PasswordHash)

	// Two provisioned accounts never share a password hash.
	other, err := NewProvisionedUser("line_U9999", "line_U9999@line.local")
	require.NoError(t, err)
	assert.NotEqual(t, user.PasswordHash, other.PasswordHash)
}

func TestUser_SetDisplayName(t *testing.T) {
	user, err := NewProvisionedUser("line_Uabc", "line_Uabc@line.local")
	require.NoError(t, err)

	require.NoError(t, user.SetDisplayName("  Hana  "))
	assert.Equal(t, "Hana", user.DisplayName)
	assert.Equal(t, "Hana", user.GetDisplayNameOrUsername())

	require.NoError(t, user.SetDisplayName(""))
	assert.Equal(t, "line_uabc", user.GetDisplayNameOrUsername())
}
