package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

// ErrProviderUnavailable is returned when no identity provider is configured.
var ErrProviderUnavailable = errors.New("sign-in with an external provider is not configured")

// TokenVerifier verifies ID tokens issued by the identity provider.
// *firebase.google.com/go/v4/auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// ProviderAuthenticator signs in users holding an ID token from an external
// provider (Google through Firebase Authentication).
type ProviderAuthenticator struct {
	verifier TokenVerifier
	storage  UserStorage
}

// NewProviderAuthenticator creates a ProviderAuthenticator. A nil verifier
// makes every sign-in fail with ErrProviderUnavailable.
func NewProviderAuthenticator(verifier TokenVerifier, storage UserStorage) *ProviderAuthenticator {
	return &ProviderAuthenticator{verifier: verifier, storage: storage}
}

// Authenticate verifies idToken and returns the matching user, creating it on
// first sign-in. The profile is refreshed in the user directory every time.
func (a *ProviderAuthenticator) Authenticate(ctx context.Context, idToken string) (*models.User, error) {
	if a.verifier == nil {
		return nil, ErrProviderUnavailable
	}

	token, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := claimString(token.Claims, "email")
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrInvalidToken)
	}
	displayName := claimString(token.Claims, "name")
	photoURL := claimString(token.Claims, "picture")

	user, err := a.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		user = models.NewUser(email, displayName, "")
		user.ID = token.UID
		user.PhotoURL = photoURL
		if err := a.storage.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	}

	user.DisplayName = models.ProfileName(displayName, email)
	if photoURL != "" {
		user.PhotoURL = photoURL
	}
	user.UpdatedAt = time.Now().Unix()
	if err := a.storage.UpsertProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
