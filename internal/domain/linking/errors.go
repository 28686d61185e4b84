package linking

import "errors"

var (
	// ErrLinkNotFound is returned when no link exists for the given key.
	ErrLinkNotFound = errors.New("linking: link not found")
	// ErrLinkConflict is returned when the LINE user id is already bound
	// to a different local account. It is produced by the storage layer's
	// unique constraint, never by an application-level check.
	ErrLinkConflict = errors.New("linking: line user already linked to another account")
	// ErrInvalidUserID is returned for a missing local account id.
	ErrInvalidUserID = errors.New("linking: invalid local user id")
	// ErrInvalidLineUserID is returned for an empty LINE user id.
	ErrInvalidLineUserID = errors.New("linking: invalid line user id")
)
