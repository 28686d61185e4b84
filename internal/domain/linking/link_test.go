package linking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineLink(t *testing.T) {
	t.Run("creates link with profile fields", func(t *testing.T) {
		userID := uuid.New()

		link, err := NewLineLink(userID, "U4af4980629", "Hana", "https://profile.line-scdn.net/abc")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, link.ID)
		assert.Equal(t, userID, link.UserID)
		assert.Equal(t, "U4af4980629", link.LineUserID)
		assert.Equal(t, "Hana", link.DisplayName)
		assert.Equal(t, "https://profile.line-scdn.net/abc", link.PictureURL)
		assert.False(t, link.CreatedAt.IsZero())
		assert.Equal(t, link.CreatedAt, link.UpdatedAt)
	})

	t.Run("rejects nil user id", func(t *testing.T) {
		_, err := NewLineLink(uuid.Nil, "U4af4980629", "", "")
		assert.ErrorIs(t, err, ErrInvalidUserID)
	})

	t.Run("rejects empty line user id", func(t *testing.T) {
		_, err := NewLineLink(uuid.New(), "", "", "")
		assert.ErrorIs(t, err, ErrInvalidLineUserID)
	})
}

func TestLineLink_RefreshProfile(t *testing.T) {
	link, err := NewLineLink(uuid.New(), "U4af4980629", "Hana", "https://old")
	require.NoError(t, err)
	created := link.UpdatedAt

	time.Sleep(time.Millisecond)
	link.RefreshProfile("Hana T.", "https://new")

	assert.Equal(t, "Hana T.", link.DisplayName)
	assert.Equal(t, "https://new", link.PictureURL)
	assert.True(t, link.UpdatedAt.After(created))

	t.Run("empty values keep cached fields", func(t *testing.T) {
		link.RefreshProfile("", "")
		assert.Equal(t, "Hana T.", link.DisplayName)
		assert.Equal(t, "https://new", link.PictureURL)
	})
}

func TestLineLink_Validate(t *testing.T) {
	link, err := NewLineLink(uuid.New(), "U4af4980629", "", "")
	require.NoError(t, err)
	assert.NoError(t, link.Validate())

	link.LineUserID = ""
	assert.ErrorIs(t, link.Validate(), ErrInvalidLineUserID)

	link.LineUserID = "U4af4980629"
	link.UserID = uuid.Nil
	assert.ErrorIs(t, link.Validate(), ErrInvalidUserID)
}
