package model

import "time"

// Visibility controls who may read a dictionary entry.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private" // Readable only by the entry's owner.
)

// Entry is one community-submitted dictionary record. At most one live entry
// exists per exact term string; a later add for the same term replaces the
// whole row, owner and visibility included.
type Entry struct {
	Term       string
	Content    string
	Owner      string // Opaque chat-platform user ID of the submitter.
	Visibility Visibility
	CreatedAt  time.Time
}

// VisibleTo reports whether requester may read this entry.
func (e Entry) VisibleTo(requester string) bool {
	return e.Visibility == VisibilityPublic || e.Owner == requester
}
