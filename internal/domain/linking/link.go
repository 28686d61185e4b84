package linking

import (
	"time"

	"github.com/google/uuid"
)

// LineLink binds a local store account to a LINE user.
// The cached profile fields are for display only and are refreshed on
// every login; LINE remains authoritative for them.
type LineLink struct {
	// ID is the surrogate identifier of this link
	ID uuid.UUID
	// UserID is the owning local account; at most one link per account
	UserID uuid.UUID
	// LineUserID is the opaque LINE user identifier; at most one link per LINE user
	LineUserID string
	// DisplayName is the cached LINE display name (not authoritative)
	DisplayName string
	// PictureURL is the cached LINE avatar URL
	PictureURL string
	// CreatedAt is when the link was first established
	CreatedAt time.Time
	// UpdatedAt is refreshed on every upsert
	UpdatedAt time.Time
}

// NewLineLink creates a link between a local account and a LINE user.
func NewLineLink(userID uuid.UUID, lineUserID, displayName, pictureURL string) (*LineLink, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if lineUserID == "" {
		return nil, ErrInvalidLineUserID
	}

	now := time.Now()
	return &LineLink{
		ID:          uuid.New(),
		UserID:      userID,
		LineUserID:  lineUserID,
		DisplayName: displayName,
		PictureURL:  pictureURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RefreshProfile updates the cached profile fields from a fresh LINE profile.
// Empty values leave the existing cache untouched.
func (l *LineLink) RefreshProfile(displayName, pictureURL string) {
	if displayName != "" {
		l.DisplayName = displayName
	}
	if pictureURL != "" {
		l.PictureURL = pictureURL
	}
	l.UpdatedAt = time.Now()
}

// Validate checks the link's invariants.
func (l *LineLink) Validate() error {
	if l.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if l.LineUserID == "" {
		return ErrInvalidLineUserID
	}
	return nil
}
