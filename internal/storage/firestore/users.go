package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

type userDoc struct {
	Email        string   `firestore:"email"`
	DisplayName  string   `firestore:"displayName"`
	PhotoURL     string   `firestore:"photoURL,omitempty"`
	PasswordHash string   `firestore:"passwordHash,omitempty"`
	PushTokens   []string `firestore:"pushTokens,omitempty"`
	CreatedAt    int64    `firestore:"createdAt"`
	UpdatedAt    int64    `firestore:"updatedAt"`
}

func decodeUser(doc *firestore.DocumentSnapshot) (*models.User, []string, error) {
	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, nil, fmt.Errorf("failed to decode user %s: %w", doc.Ref.ID, err)
	}
	return &models.User{
		ID:           doc.Ref.ID,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PhotoURL:     d.PhotoURL,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, d.PushTokens, nil
}

// CreateUser stores a new directory entry keyed by user ID.
func (s *FirestoreStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.users().Doc(user.ID).Create(ctx, userDoc{
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PhotoURL:     user.PhotoURL,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail queries the directory by exact email.
func (s *FirestoreStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := s.users().Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	user, _, err := decodeUser(docs[0])
	return user, err
}

// GetUserByID fetches a directory entry.
func (s *FirestoreStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := s.GetUsersByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return users[id], nil
}

func (s *FirestoreStore) getUserDocs(ctx context.Context, ids []string) ([]*firestore.DocumentSnapshot, error) {
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = s.users().Doc(id)
	}
	docs, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return docs, nil
}

// GetUsersByIDs batch-reads directory entries. Missing documents are omitted.
func (s *FirestoreStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	docs, err := s.getUserDocs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		user, _, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		result[user.ID] = user
	}
	return result, nil
}

// UpsertProfile merges the profile fields into the user's document.
func (s *FirestoreStore) UpsertProfile(ctx context.Context, user *models.User) error {
	updatedAt := user.UpdatedAt
	if updatedAt == 0 {
		updatedAt = time.Now().Unix()
	}
	data := map[string]any{
		"email":       user.Email,
		"displayName": user.DisplayName,
		"photoURL":    user.PhotoURL,
		"updatedAt":   updatedAt,
	}
	if user.CreatedAt != 0 {
		data["createdAt"] = user.CreatedAt
	}
	if _, err := s.users().Doc(user.ID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// AddPushToken adds token to the user's token set.
func (s *FirestoreStore) AddPushToken(ctx context.Context, userID, token string) error {
	_, err := s.users().Doc(userID).Set(ctx, map[string]any{
		"pushTokens": firestore.ArrayUnion(token),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to add push token: %w", err)
	}
	return nil
}

// GetPushTokens batch-reads the token sets of the given users.
func (s *FirestoreStore) GetPushTokens(ctx context.Context, userIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	docs, err := s.getUserDocs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		_, tokens, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		if len(tokens) > 0 {
			result[doc.Ref.ID] = tokens
		}
	}
	return result, nil
}
