package auth

import (
	"context"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

// Authenticator defines the interface for credential-based sign-in.
// This abstraction allows swapping between different auth methods (password, passkeys, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

// UserStorage defines the user directory operations needed for sign-in.
// This allows the authenticators to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpsertProfile(ctx context.Context, user *models.User) error
}
