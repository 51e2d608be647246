// Package storage provides abstractions for the realtime document backend.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
)

// ErrNotFound is returned when a list, item or user does not exist.
var ErrNotFound = errors.New("not found")

// Store is the backend handle injected into the list and item stores.
// This abstraction allows swapping backends (SQLite, Firestore)
// without changing the store or service layers.
type Store interface {
	UserStore
	ListStore
	ItemStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore is the shared user directory.
type UserStore interface {
	// CreateUser inserts a new user. The email must not be registered yet.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail looks up a user by exact email. Returns nil, nil if none exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to User. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpsertProfile merges email, display name, photo and UpdatedAt into the
	// directory entry of user.ID, creating it if needed. The password hash is
	// never overwritten.
	UpsertProfile(ctx context.Context, user *models.User) error

	// AddPushToken registers a push messaging token for a user.
	AddPushToken(ctx context.Context, userID, token string) error

	// GetPushTokens returns the registered tokens of each user.
	GetPushTokens(ctx context.Context, userIDs []string) (map[string][]string, error)
}

// ListStore persists lists and their membership.
type ListStore interface {
	// CreateList persists a new list. The ID is generated when empty.
	CreateList(ctx context.Context, list *models.List) error

	// GetList returns ErrNotFound if the list does not exist.
	GetList(ctx context.Context, id string) (*models.List, error)

	// FindListByShareCode matches an upper-cased share code exactly.
	// Returns ErrNotFound if no list uses it.
	FindListByShareCode(ctx context.Context, code string) (*models.List, error)

	// UpdateList applies patch and sets UpdatedAt.
	UpdateList(ctx context.Context, id string, patch models.ListPatch, at time.Time) error

	// TouchList sets UpdatedAt only.
	TouchList(ctx context.Context, id string, at time.Time) error

	// AddListMember adds userID to the member set and records its email,
	// atomically with respect to other membership writes, and sets UpdatedAt.
	AddListMember(ctx context.Context, id, userID, email string, at time.Time) error

	// RemoveListMember removes userID from the member set and the email map,
	// atomically with respect to other membership writes, and sets UpdatedAt.
	RemoveListMember(ctx context.Context, id, userID string, at time.Time) error

	// DeleteList removes the list document. Items are left untouched.
	DeleteList(ctx context.Context, id string) error

	// ListListsForMember returns every list whose member set contains userID,
	// in no particular order.
	ListListsForMember(ctx context.Context, userID string) ([]*models.List, error)

	// WatchLists is the live version of ListListsForMember. The first snapshot
	// is the current state; a new snapshot follows every change to a matching list.
	WatchLists(ctx context.Context, userID string) (*realtime.Stream[*models.List], error)
}

// ItemStore persists list items.
type ItemStore interface {
	// CreateItem persists a new item. The ID is generated when empty.
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItem returns ErrNotFound if the item does not exist.
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// UpdateItem applies patch and sets UpdatedAt.
	UpdateItem(ctx context.Context, id string, patch models.ItemPatch, at time.Time) error

	// DeleteItem returns ErrNotFound if the item does not exist.
	DeleteItem(ctx context.Context, id string) error

	// DeleteItemsByList removes every item of a list and returns how many were removed.
	DeleteItemsByList(ctx context.Context, listID string) (int, error)

	// ListItems returns the items of a list in no particular order.
	ListItems(ctx context.Context, listID string) ([]*models.Item, error)

	// WatchItems is the live version of ListItems.
	WatchItems(ctx context.Context, listID string) (*realtime.Stream[*models.Item], error)
}
