package shopping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

// ItemStore manages the items of lists. Every mutation also touches the
// parent list so it moves to the front of its members' list views.
type ItemStore struct {
	backend storage.Store
	opts    options
}

// NewItemStore creates an ItemStore on backend.
func NewItemStore(backend storage.Store, opts ...Option) *ItemStore {
	return &ItemStore{backend: backend, opts: newOptions(opts)}
}

// Subscribe streams the items of a list, incomplete items first and then by name.
func (s *ItemStore) Subscribe(ctx context.Context, listID string) (*realtime.Stream[*models.Item], error) {
	if listID == "" {
		return realtime.Static(ctx, []*models.Item{}), nil
	}

	src, err := s.backend.WatchItems(ctx, listID)
	if err != nil {
		return nil, backendErr("subscribe items", err)
	}
	return realtime.Map(ctx, src, func(items []*models.Item) []*models.Item {
		sorted := slices.Clone(items)
		SortItems(sorted)
		return sorted
	}), nil
}

// SubscribeAsMember streams the items of listID like Subscribe for as long
// as caller belongs to the list. Each snapshot is checked against the
// current list before delivery. The stream ends with ErrPermissionDenied
// once the caller is removed and with ErrNotFound once the list is deleted.
func (s *ItemStore) SubscribeAsMember(ctx context.Context, caller models.Identity, listID string) (*realtime.Stream[*models.Item], error) {
	if err := s.checkAccess(ctx, caller, listID); err != nil {
		return nil, err
	}

	lists, err := s.backend.WatchLists(ctx, caller.ID)
	if err != nil {
		return nil, backendErr("subscribe items", err)
	}
	items, err := s.Subscribe(ctx, listID)
	if err != nil {
		lists.Cancel()
		return nil, err
	}

	return realtime.NewStream(ctx, func(ctx context.Context, emit func([]*models.Item) bool) error {
		defer lists.Cancel()
		defer items.Cancel()

		for {
			select {
			case <-ctx.Done():
				return nil
			case snapshot, ok := <-lists.Snapshots():
				if !ok {
					return streamErr("watch membership", lists.Err())
				}
				// Leaving the caller's lists ends the stream without waiting for an item change
				if !slices.ContainsFunc(snapshot, func(l *models.List) bool { return l.ID == listID }) {
					if err := s.checkAccess(ctx, caller, listID); err != nil {
						return err
					}
				}
			case docs, ok := <-items.Snapshots():
				if !ok {
					return streamErr("subscribe items", items.Err())
				}
				if err := s.checkAccess(ctx, caller, listID); err != nil {
					return err
				}
				if !emit(docs) {
					return nil
				}
			}
		}
	}), nil
}

func (s *ItemStore) checkAccess(ctx context.Context, caller models.Identity, listID string) error {
	list, err := s.backend.GetList(ctx, listID)
	if err != nil {
		return backendErr("check membership", err)
	}
	if !list.IsMember(caller.ID) {
		return fmt.Errorf("list %s: %w", listID, ErrPermissionDenied)
	}
	return nil
}

func streamErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return backendErr(action, err)
}

// Add creates an item and returns its ID. Quantity and unit price are kept
// only when strictly positive.
func (s *ItemStore) Add(ctx context.Context, in models.NewItem) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", invalid("item name is required")
	}
	if in.ListID == "" {
		return "", invalid("list id is required")
	}
	quantity, err := positive("quantity", in.Quantity)
	if err != nil {
		return "", err
	}
	unitPrice, err := positive("unit price", in.UnitPrice)
	if err != nil {
		return "", err
	}

	now := s.opts.now()
	item := &models.Item{
		ListID:    in.ListID,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Note:      strings.TrimSpace(in.Note),
		AddedBy:   in.AddedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.backend.CreateItem(ctx, item); err != nil {
		return "", backendErr("add item", err)
	}

	if err := s.touch(ctx, in.ListID); err != nil {
		return item.ID, err
	}
	return item.ID, nil
}

// Toggle sets the completed flag of an item.
func (s *ItemStore) Toggle(ctx context.Context, itemID, listID string, completed bool) error {
	patch := models.ItemPatch{Completed: &completed}
	if err := s.backend.UpdateItem(ctx, itemID, patch, s.opts.now()); err != nil {
		return backendErr("toggle item", err)
	}
	return s.touch(ctx, listID)
}

// Delete removes an item.
func (s *ItemStore) Delete(ctx context.Context, itemID, listID string) error {
	if err := s.backend.DeleteItem(ctx, itemID); err != nil {
		return backendErr("delete item", err)
	}
	return s.touch(ctx, listID)
}

// Edit applies a partial update. Numeric fields set to a value <= 0 are
// cleared rather than stored.
func (s *ItemStore) Edit(ctx context.Context, itemID, listID string, patch models.ItemPatch) error {
	if patch.IsEmpty() {
		return invalid("nothing to update")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return invalid("item name is required")
		}
		patch.Name = &name
	}
	if patch.Note != nil {
		note := strings.TrimSpace(*patch.Note)
		patch.Note = &note
	}

	var err error
	if patch.Quantity, err = normalizeNumber("quantity", patch.Quantity); err != nil {
		return err
	}
	if patch.UnitPrice, err = normalizeNumber("unit price", patch.UnitPrice); err != nil {
		return err
	}

	if err := s.backend.UpdateItem(ctx, itemID, patch, s.opts.now()); err != nil {
		return backendErr("edit item", err)
	}
	return s.touch(ctx, listID)
}

// Get returns an item by ID.
func (s *ItemStore) Get(ctx context.Context, itemID string) (*models.Item, error) {
	item, err := s.backend.GetItem(ctx, itemID)
	if err != nil {
		return nil, backendErr("get item", err)
	}
	return item, nil
}

// touch bumps the parent list. A list that no longer exists is not an error:
// its items outlive it unless cascade deletes are enabled.
func (s *ItemStore) touch(ctx context.Context, listID string) error {
	err := s.backend.TouchList(ctx, listID, s.opts.now())
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("Touched list no longer exists", "list_id", listID)
		return nil
	}
	if err != nil {
		return backendErr("touch list", err)
	}
	return nil
}

// positive keeps v only when it is a positive number.
func positive(field string, v *float64) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil, invalid("%s must be a number", field)
	}
	if *v <= 0 {
		return nil, nil
	}
	n := *v
	return &n, nil
}

func normalizeNumber(field string, n models.Number) (models.Number, error) {
	if !n.Set || n.Value == nil {
		return n, nil
	}
	v, err := positive(field, n.Value)
	if err != nil {
		return n, err
	}
	if v == nil {
		return models.ClearNumber(), nil
	}
	return models.SetNumber(*v), nil
}
