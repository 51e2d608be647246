package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
)

type itemDoc struct {
	ListID    string    `firestore:"listId"`
	Name      string    `firestore:"name"`
	Quantity  *float64  `firestore:"quantity,omitempty"`
	UnitPrice *float64  `firestore:"unitPrice,omitempty"`
	Note      string    `firestore:"note"`
	Completed bool      `firestore:"completed"`
	AddedBy   string    `firestore:"addedBy"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func decodeItem(doc *firestore.DocumentSnapshot) (*models.Item, error) {
	var d itemDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode item %s: %w", doc.Ref.ID, err)
	}
	return &models.Item{
		ID:        doc.Ref.ID,
		ListID:    d.ListID,
		Name:      d.Name,
		Quantity:  d.Quantity,
		UnitPrice: d.UnitPrice,
		Note:      d.Note,
		Completed: d.Completed,
		AddedBy:   d.AddedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// CreateItem stores a new item document.
func (s *FirestoreStore) CreateItem(ctx context.Context, item *models.Item) error {
	ref := s.items().NewDoc()
	if item.ID != "" {
		ref = s.items().Doc(item.ID)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	_, err := ref.Create(ctx, itemDoc{
		ListID:    item.ListID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Note:      item.Note,
		Completed: item.Completed,
		AddedBy:   item.AddedBy,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	item.ID = ref.ID
	return nil
}

// GetItem fetches an item document.
func (s *FirestoreStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	doc, err := s.items().Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapErr(err, "get item", "item "+id)
	}
	return decodeItem(doc)
}

// UpdateItem writes the patched fields. Cleared numbers are removed from the document.
func (s *FirestoreStore) UpdateItem(ctx context.Context, id string, patch models.ItemPatch, at time.Time) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: at}}
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Quantity.Set {
		updates = append(updates, firestore.Update{Path: "quantity", Value: numberValue(patch.Quantity)})
	}
	if patch.UnitPrice.Set {
		updates = append(updates, firestore.Update{Path: "unitPrice", Value: numberValue(patch.UnitPrice)})
	}
	if patch.Note != nil {
		updates = append(updates, firestore.Update{Path: "note", Value: *patch.Note})
	}
	if patch.Completed != nil {
		updates = append(updates, firestore.Update{Path: "completed", Value: *patch.Completed})
	}

	if _, err := s.items().Doc(id).Update(ctx, updates); err != nil {
		return wrapErr(err, "update item", "item "+id)
	}
	return nil
}

func numberValue(n models.Number) any {
	if n.Clears() {
		return firestore.Delete
	}
	return *n.Value
}

// DeleteItem deletes an existing item document.
func (s *FirestoreStore) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.items().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return wrapErr(err, "delete item", "item "+id)
	}
	return nil
}

// DeleteItemsByList removes the items of a list with a bulk writer.
func (s *FirestoreStore) DeleteItemsByList(ctx context.Context, listID string) (int, error) {
	refs, err := s.itemsQuery(listID).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list items: %w", err)
	}
	if len(refs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, doc := range refs {
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return 0, fmt.Errorf("failed to enqueue item delete: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	deleted := 0
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}
	if firstErr != nil {
		return deleted, fmt.Errorf("failed to delete items: %w", firstErr)
	}
	return deleted, nil
}

func (s *FirestoreStore) itemsQuery(listID string) firestore.Query {
	return s.items().Where("listId", "==", listID)
}

// ListItems runs the list's item query once.
func (s *FirestoreStore) ListItems(ctx context.Context, listID string) ([]*models.Item, error) {
	docs, err := s.itemsQuery(listID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	items := make([]*models.Item, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeItem(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// WatchItems listens to the list's item query.
func (s *FirestoreStore) WatchItems(ctx context.Context, listID string) (*realtime.Stream[*models.Item], error) {
	return watchQuery(ctx, s.itemsQuery(listID), decodeItem), nil
}
