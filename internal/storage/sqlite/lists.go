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

const listColumns = `id, name, description, owner_id, share_code, created_at, updated_at`

// CreateList persists a new list together with its initial members.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	// Generate IDs if not set
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}
	if list.UpdatedAt.IsZero() {
		list.UpdatedAt = list.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lists (`+listColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.Name, list.Description, list.OwnerID, list.ShareCode,
		toNanos(list.CreatedAt), toNanos(list.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	for i, member := range list.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO list_members (list_id, user_id, email, position) VALUES (?, ?, ?, ?)",
			list.ID, member, list.MemberEmails[member], i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert list member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishLists(list.Members)
	return nil
}

// GetList retrieves a list by ID, including its members.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*models.List, error) {
	return getList(ctx, s.db, id)
}

func getList(ctx context.Context, q querier, id string) (*models.List, error) {
	list, err := scanList(q.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("list %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	if err := loadMembers(ctx, q, []*models.List{list}); err != nil {
		return nil, err
	}
	return list, nil
}

// FindListByShareCode returns the list using code.
func (s *SQLiteStore) FindListByShareCode(ctx context.Context, code string) (*models.List, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM lists WHERE share_code = ? ORDER BY created_at LIMIT 1", code,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("share code %s: %w", code, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find list by share code: %w", err)
	}
	return s.GetList(ctx, id)
}

// UpdateList applies a metadata patch and bumps updated_at.
func (s *SQLiteStore) UpdateList(ctx context.Context, id string, patch models.ListPatch, at time.Time) error {
	query := "UPDATE lists SET updated_at = ?"
	args := []any{toNanos(at)}
	if patch.Name != nil {
		query += ", name = ?"
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		query += ", description = ?"
		args = append(args, *patch.Description)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	return s.execListWrite(ctx, id, query, args...)
}

// TouchList bumps updated_at.
func (s *SQLiteStore) TouchList(ctx context.Context, id string, at time.Time) error {
	return s.execListWrite(ctx, id, "UPDATE lists SET updated_at = ? WHERE id = ?", toNanos(at), id)
}

// execListWrite runs a single-row update on lists and notifies the members' watchers.
func (s *SQLiteStore) execListWrite(ctx context.Context, id, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", id, storage.ErrNotFound)
	}

	members, err := memberIDs(ctx, s.db, id)
	if err != nil {
		return err
	}
	s.publishLists(members)
	return nil
}

// AddListMember adds a member inside a transaction. Adding an existing member
// refreshes its email.
func (s *SQLiteStore) AddListMember(ctx context.Context, id, userID, email string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := touchInTx(ctx, tx, id, at); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO list_members (list_id, user_id, email, position)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM list_members WHERE list_id = ?))
		 ON CONFLICT(list_id, user_id) DO UPDATE SET email = excluded.email`,
		id, userID, email, id,
	)
	if err != nil {
		return fmt.Errorf("failed to add list member: %w", err)
	}

	members, err := memberIDs(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishLists(members)
	return nil
}

// RemoveListMember removes a member inside a transaction. The removed user's
// watchers are notified as well so the list disappears from their view.
func (s *SQLiteStore) RemoveListMember(ctx context.Context, id, userID string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := touchInTx(ctx, tx, id, at); err != nil {
		return err
	}

	members, err := memberIDs(ctx, tx, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM list_members WHERE list_id = ? AND user_id = ?", id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove list member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishLists(members)
	return nil
}

func touchInTx(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	result, err := tx.ExecContext(ctx, "UPDATE lists SET updated_at = ? WHERE id = ?", toNanos(at), id)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// DeleteList removes a list and its membership rows. Items are not touched.
func (s *SQLiteStore) DeleteList(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	members, err := memberIDs(ctx, tx, id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", id, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.publishLists(members)
	return nil
}

// ListListsForMember returns the lists userID belongs to.
func (s *SQLiteStore) ListListsForMember(ctx context.Context, userID string) ([]*models.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.name, l.description, l.owner_id, l.share_code, l.created_at, l.updated_at
		 FROM lists l JOIN list_members m ON m.list_id = l.id
		 WHERE m.user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}

	var lists []*models.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	// Close before loading members: the store runs on a single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}

	if err := loadMembers(ctx, s.db, lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// WatchLists streams the lists userID belongs to.
func (s *SQLiteStore) WatchLists(ctx context.Context, userID string) (*realtime.Stream[*models.List], error) {
	return watch(ctx, s.broker, listsTopic(userID), func(ctx context.Context) ([]*models.List, error) {
		return s.ListListsForMember(ctx, userID)
	}), nil
}

// watch builds a live query: subscribe first, then read, then re-read on every signal.
func watch[T any](ctx context.Context, broker *realtime.Broker, topic string, read func(context.Context) ([]T, error)) *realtime.Stream[T] {
	sub := broker.Subscribe(topic)
	return realtime.NewStream(ctx, func(ctx context.Context, emit func([]T) bool) error {
		defer sub.Close()
		for {
			docs, err := read(ctx)
			if err != nil {
				return err
			}
			if !emit(docs) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-sub.C:
			}
		}
	})
}

func memberIDs(ctx context.Context, q querier, listID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM list_members WHERE list_id = ? ORDER BY position", listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get list members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan list member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list members: %w", err)
	}
	return ids, nil
}

// loadMembers fills Members and MemberEmails of every list in one query.
func loadMembers(ctx context.Context, q querier, lists []*models.List) error {
	if len(lists) == 0 {
		return nil
	}

	byID := make(map[string]*models.List, len(lists))
	args := make([]any, len(lists))
	for i, l := range lists {
		byID[l.ID] = l
		l.Members = nil
		l.MemberEmails = make(map[string]string)
		args[i] = l.ID
	}

	rows, err := q.QueryContext(ctx,
		`SELECT list_id, user_id, email FROM list_members
		 WHERE list_id IN (`+placeholders(len(lists))+`) ORDER BY list_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get list members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listID, userID, email string
		if err := rows.Scan(&listID, &userID, &email); err != nil {
			return fmt.Errorf("failed to scan list member: %w", err)
		}
		l := byID[listID]
		l.Members = append(l.Members, userID)
		if email != "" {
			l.MemberEmails[userID] = email
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate list members: %w", err)
	}
	return nil
}

func scanList(row rowScanner) (*models.List, error) {
	list := &models.List{}
	var createdAt, updatedAt int64
	if err := row.Scan(&list.ID, &list.Name, &list.Description, &list.OwnerID, &list.ShareCode, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	list.CreatedAt = fromNanos(createdAt)
	list.UpdatedAt = fromNanos(updatedAt)
	return list, nil
}
