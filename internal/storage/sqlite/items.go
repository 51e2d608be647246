package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

const itemColumns = `id, list_id, name, quantity, unit_price, note, completed, added_by, created_at, updated_at`

// CreateItem persists a new item to the database.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	// Generate ID if not set
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ListID, item.Name, nullFloat(item.Quantity), nullFloat(item.UnitPrice),
		item.Note, item.Completed, item.AddedBy, toNanos(item.CreatedAt), toNanos(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	s.broker.Publish(itemsTopic(item.ListID))
	return nil
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// UpdateItem applies a patch. Cleared numeric fields are stored as NULL.
func (s *SQLiteStore) UpdateItem(ctx context.Context, id string, patch models.ItemPatch, at time.Time) error {
	query := "UPDATE items SET updated_at = ?"
	args := []any{toNanos(at)}
	if patch.Name != nil {
		query += ", name = ?"
		args = append(args, *patch.Name)
	}
	if patch.Quantity.Set {
		query += ", quantity = ?"
		args = append(args, nullFloat(patch.Quantity.Value))
	}
	if patch.UnitPrice.Set {
		query += ", unit_price = ?"
		args = append(args, nullFloat(patch.UnitPrice.Value))
	}
	if patch.Note != nil {
		query += ", note = ?"
		args = append(args, *patch.Note)
	}
	if patch.Completed != nil {
		query += ", completed = ?"
		args = append(args, *patch.Completed)
	}
	query += " WHERE id = ? RETURNING list_id"
	args = append(args, id)

	var listID string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&listID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("item %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	s.broker.Publish(itemsTopic(listID))
	return nil
}

// DeleteItem removes an item by ID.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	var listID string
	err := s.db.QueryRowContext(ctx, "DELETE FROM items WHERE id = ? RETURNING list_id", id).Scan(&listID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("item %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.broker.Publish(itemsTopic(listID))
	return nil
}

// DeleteItemsByList removes every item of a list.
func (s *SQLiteStore) DeleteItemsByList(ctx context.Context, listID string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE list_id = ?", listID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if n > 0 {
		s.broker.Publish(itemsTopic(listID))
	}
	return int(n), nil
}

// ListItems retrieves all items of a list.
func (s *SQLiteStore) ListItems(ctx context.Context, listID string) ([]*models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE list_id = ?`, listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// WatchItems streams the items of a list.
func (s *SQLiteStore) WatchItems(ctx context.Context, listID string) (*realtime.Stream[*models.Item], error) {
	return watch(ctx, s.broker, itemsTopic(listID), func(ctx context.Context) ([]*models.Item, error) {
		return s.ListItems(ctx, listID)
	}), nil
}

func scanItem(row rowScanner) (*models.Item, error) {
	item := &models.Item{}
	var quantity, unitPrice sql.NullFloat64
	var createdAt, updatedAt int64
	if err := row.Scan(
		&item.ID, &item.ListID, &item.Name, &quantity, &unitPrice,
		&item.Note, &item.Completed, &item.AddedBy, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if quantity.Valid {
		item.Quantity = &quantity.Float64
	}
	if unitPrice.Valid {
		item.UnitPrice = &unitPrice.Float64
	}
	item.CreatedAt = fromNanos(createdAt)
	item.UpdatedAt = fromNanos(updatedAt)
	return item, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
