package models

import (
	"slices"
	"time"
)

// ShareCodeLength is the number of characters in a list share code.
const ShareCodeLength = 6

// List represents a shopping list shared by its members.
type List struct {
	// ID is the unique identifier for the list (UUID format for SQLite,
	// document ID for Firestore).
	ID string

	// Name is the display name of the list (e.g., "Mercado", "Farmácia").
	Name string

	// Description is optional free text. Empty means no description.
	Description string

	// OwnerID is the user who created the list. The owner is always a member.
	OwnerID string

	// Members is the set of user IDs with access to the list.
	// Order carries no meaning beyond join order.
	Members []string

	// MemberEmails maps member IDs to their email, denormalized for display.
	MemberEmails map[string]string

	// ShareCode is the 6-character join code ([A-Z0-9], matched case-insensitively).
	ShareCode string

	CreatedAt time.Time

	// UpdatedAt is bumped on every list edit, membership change, and item mutation.
	// Lists are presented most recently updated first.
	UpdatedAt time.Time
}

// IsMember reports whether userID belongs to the list.
func (l *List) IsMember(userID string) bool {
	return slices.Contains(l.Members, userID)
}

// IsOwner reports whether userID owns the list.
func (l *List) IsOwner(userID string) bool {
	return userID != "" && l.OwnerID == userID
}

// ListPatch is a partial update of the editable list metadata.
// Nil fields are left untouched.
type ListPatch struct {
	Name        *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ListPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil
}
