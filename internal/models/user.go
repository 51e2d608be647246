package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDisplayName is used when a user has neither a display name nor an email.
const DefaultDisplayName = "User"

// User represents an entry of the shared user directory.
// Users are written on every sign-in so that list members can be resolved
// to a display name and photo.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Sharing by email matches it exactly.
	Email string

	// DisplayName is shown in member lists.
	DisplayName string

	// PhotoURL is an optional avatar reference.
	PhotoURL string

	// PasswordHash is the bcrypt hash for password accounts.
	// Empty for accounts created through an external provider.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile projection.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  ProfileName(displayName, email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ProfileName picks the display name written to the user directory:
// the explicit name, else the email local part, else DefaultDisplayName.
func ProfileName(displayName, email string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return DefaultDisplayName
}

// Identity is the authenticated caller of a store operation.
type Identity struct {
	ID    string
	Email string
}
