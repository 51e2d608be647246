package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

type listDoc struct {
	Name         string            `firestore:"name"`
	Description  string            `firestore:"description"`
	OwnerID      string            `firestore:"ownerId"`
	Members      []string          `firestore:"members"`
	MemberEmails map[string]string `firestore:"memberEmails"`
	ShareCode    string            `firestore:"shareCode"`
	CreatedAt    time.Time         `firestore:"createdAt"`
	UpdatedAt    time.Time         `firestore:"updatedAt"`
}

func decodeList(doc *firestore.DocumentSnapshot) (*models.List, error) {
	var d listDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode list %s: %w", doc.Ref.ID, err)
	}
	if d.MemberEmails == nil {
		d.MemberEmails = make(map[string]string)
	}
	return &models.List{
		ID:           doc.Ref.ID,
		Name:         d.Name,
		Description:  d.Description,
		OwnerID:      d.OwnerID,
		Members:      d.Members,
		MemberEmails: d.MemberEmails,
		ShareCode:    d.ShareCode,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

// CreateList stores a new list document.
func (s *FirestoreStore) CreateList(ctx context.Context, list *models.List) error {
	ref := s.lists().NewDoc()
	if list.ID != "" {
		ref = s.lists().Doc(list.ID)
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}
	if list.UpdatedAt.IsZero() {
		list.UpdatedAt = list.CreatedAt
	}
	emails := list.MemberEmails
	if emails == nil {
		emails = make(map[string]string)
	}

	_, err := ref.Create(ctx, listDoc{
		Name:         list.Name,
		Description:  list.Description,
		OwnerID:      list.OwnerID,
		Members:      list.Members,
		MemberEmails: emails,
		ShareCode:    list.ShareCode,
		CreatedAt:    list.CreatedAt,
		UpdatedAt:    list.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	list.ID = ref.ID
	list.MemberEmails = emails
	return nil
}

// GetList fetches a list document.
func (s *FirestoreStore) GetList(ctx context.Context, id string) (*models.List, error) {
	doc, err := s.lists().Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get list", "list "+id)
	}
	return decodeList(doc)
}

// FindListByShareCode queries lists by their share code.
func (s *FirestoreStore) FindListByShareCode(ctx context.Context, code string) (*models.List, error) {
	docs, err := s.lists().Where("shareCode", "==", code).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to find list by share code: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("share code %s: %w", code, storage.ErrNotFound)
	}
	return decodeList(docs[0])
}

// UpdateList updates the given fields and updatedAt.
func (s *FirestoreStore) UpdateList(ctx context.Context, id string, patch models.ListPatch, at time.Time) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: at}}
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *patch.Description})
	}
	if _, err := s.lists().Doc(id).Update(ctx, updates); err != nil {
		return wrapErr(err, "update list", "list "+id)
	}
	return nil
}

// TouchList sets updatedAt.
func (s *FirestoreStore) TouchList(ctx context.Context, id string, at time.Time) error {
	return s.UpdateList(ctx, id, models.ListPatch{}, at)
}

// AddListMember applies an array union and a single map-entry write, so
// concurrent joins never overwrite each other.
func (s *FirestoreStore) AddListMember(ctx context.Context, id, userID, email string, at time.Time) error {
	_, err := s.lists().Doc(id).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(userID)},
		{FieldPath: firestore.FieldPath{"memberEmails", userID}, Value: email},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return wrapErr(err, "add list member", "list "+id)
	}
	return nil
}

// RemoveListMember applies an array remove and deletes the map entry.
func (s *FirestoreStore) RemoveListMember(ctx context.Context, id, userID string, at time.Time) error {
	_, err := s.lists().Doc(id).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayRemove(userID)},
		{FieldPath: firestore.FieldPath{"memberEmails", userID}, Value: firestore.Delete},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return wrapErr(err, "remove list member", "list "+id)
	}
	return nil
}

// DeleteList deletes the list document only.
func (s *FirestoreStore) DeleteList(ctx context.Context, id string) error {
	if _, err := s.lists().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return wrapErr(err, "delete list", "list "+id)
	}
	return nil
}

func (s *FirestoreStore) memberQuery(userID string) firestore.Query {
	return s.lists().Where("members", "array-contains", userID)
}

// ListListsForMember runs the membership query once.
func (s *FirestoreStore) ListListsForMember(ctx context.Context, userID string) ([]*models.List, error) {
	docs, err := s.memberQuery(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	lists := make([]*models.List, 0, len(docs))
	for _, doc := range docs {
		list, err := decodeList(doc)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// WatchLists listens to the membership query.
func (s *FirestoreStore) WatchLists(ctx context.Context, userID string) (*realtime.Stream[*models.List], error) {
	return watchQuery(ctx, s.memberQuery(userID), decodeList), nil
}
