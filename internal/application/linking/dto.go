package linking

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineshop/backend/internal/infrastructure/auth"
)

// LoginInput carries the fields submitted by the LIFF login page.
type LoginInput struct {
	LineUserID  string
	DisplayName string
	PictureURL  string
	Email       string
	AccessToken string
	RedirectTo  string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	UserID      uuid.UUID     `json:"user_id"`
	Username    string        `json:"username"`
	DisplayName string        `json:"display_name"`
	Created     bool          `json:"created"`
	Session     *auth.Session `json:"session"`
	RedirectURL string        `json:"redirect_url"`
}

// LinkSummary is the admin view of one account link.
type LinkSummary struct {
	UserID      uuid.UUID `json:"user_id"`
	LineUserID  string    `json:"line_user_id"`
	DisplayName string    `json:"display_name"`
	PictureURL  string    `json:"picture_url"`
	LinkedAt    time.Time `json:"linked_at"`
}

// LinkListResult is the admin link listing with cleanup stats.
type LinkListResult struct {
	Links          []LinkSummary `json:"links"`
	Total          int64         `json:"total"`
	OrphansRemoved int64         `json:"orphans_removed"`
}

// LinkInspection is the admin diagnostic view of a single link.
type LinkInspection struct {
	Link               LinkSummary `json:"link"`
	UserExists         bool        `json:"user_exists"`
	MirroredLineUserID string      `json:"mirrored_line_user_id,omitempty"`
	MirrorInSync       bool        `json:"mirror_in_sync"`
}

// BackfillResult reports how many links were mirrored to the profile sink.
type BackfillResult struct {
	Mirrored int `json:"mirrored"`
	Failed   int `json:"failed"`
}
