package linking

import (
	"context"

	"github.com/google/uuid"
)

// LinkReader defines the interface for reading line links
type LinkReader interface {
	// FindByUserID finds the link owned by a local account
	FindByUserID(ctx context.Context, userID uuid.UUID) (*LineLink, error)

	// FindByLineUserID finds the link for a LINE user
	FindByLineUserID(ctx context.Context, lineUserID string) (*LineLink, error)

	// List returns links newest-first, up to limit
	List(ctx context.Context, limit int) ([]LineLink, error)

	// CountLinked counts links whose local account still exists
	CountLinked(ctx context.Context) (int64, error)
}

// LinkWriter defines the interface for persisting line links
type LinkWriter interface {
	// Upsert inserts the link or, if a link already exists for
	// link.UserID, updates its LINE user id and cached profile fields.
	// Returns ErrLinkConflict when link.LineUserID is bound to a
	// different local account.
	Upsert(ctx context.Context, link *LineLink) error

	// DeleteByUserID removes the link owned by a local account
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteOrphans removes links whose local account no longer exists
	// and returns the number of removed rows. Local-account deletion is
	// not guaranteed to cascade, so callers run this before listings.
	DeleteOrphans(ctx context.Context) (int64, error)
}

// LinkRepository defines the full interface for line link persistence
type LinkRepository interface {
	LinkReader
	LinkWriter
}

// ProfileSink is a secondary per-account key-value store that mirrors
// link writes for legacy compatibility. Writes are best-effort: the
// store layer logs sink failures and never propagates them.
type ProfileSink interface {
	// MirrorProfile writes the profile fields for a local account
	MirrorProfile(ctx context.Context, userID uuid.UUID, lineUserID, displayName, pictureURL string) error

	// ReadMirroredID returns the LINE user id mirrored for a local
	// account, or empty string when none is present.
	ReadMirroredID(ctx context.Context, userID uuid.UUID) (string, error)
}
