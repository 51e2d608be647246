package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func floatPtr(v float64) *float64 { return &v }

func nextSnapshot[T any](t *testing.T, s *realtime.Stream[T]) []T {
	t.Helper()
	select {
	case docs, ok := <-s.Snapshots():
		if !ok {
			t.Fatalf("stream closed: %v", s.Err())
		}
		return docs
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestSQLiteStoreLists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	list := &models.List{
		Name:         "Mercado",
		OwnerID:      "alice",
		Members:      []string{"alice"},
		MemberEmails: map[string]string{"alice": "alice@example.com"},
		ShareCode:    "ABC123",
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	t.Run("CreateList generates ID", func(t *testing.T) {
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		if list.ID == "" {
			t.Error("Expected list ID to be generated")
		}
	})

	t.Run("GetList retrieves members and emails", func(t *testing.T) {
		got, err := store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if got.Name != "Mercado" || got.OwnerID != "alice" || got.ShareCode != "ABC123" {
			t.Errorf("unexpected list: %+v", got)
		}
		if len(got.Members) != 1 || got.Members[0] != "alice" {
			t.Errorf("Members = %v, want [alice]", got.Members)
		}
		if got.MemberEmails["alice"] != "alice@example.com" {
			t.Errorf("MemberEmails = %v", got.MemberEmails)
		}
		if !got.UpdatedAt.Equal(created) {
			t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, created)
		}
	})

	t.Run("GetList not found", func(t *testing.T) {
		_, err := store.GetList(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("FindListByShareCode", func(t *testing.T) {
		got, err := store.FindListByShareCode(ctx, "ABC123")
		if err != nil {
			t.Fatalf("FindListByShareCode failed: %v", err)
		}
		if got.ID != list.ID {
			t.Errorf("found %s, want %s", got.ID, list.ID)
		}
		if _, err := store.FindListByShareCode(ctx, "ZZZZZZ"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown code, got %v", err)
		}
	})

	t.Run("UpdateList patches only given fields", func(t *testing.T) {
		desc := "semanal"
		at := created.Add(time.Minute)
		if err := store.UpdateList(ctx, list.ID, models.ListPatch{Description: &desc}, at); err != nil {
			t.Fatalf("UpdateList failed: %v", err)
		}
		got, _ := store.GetList(ctx, list.ID)
		if got.Name != "Mercado" || got.Description != "semanal" {
			t.Errorf("unexpected list after patch: %+v", got)
		}
		if !got.UpdatedAt.Equal(at) {
			t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, at)
		}
	})

	t.Run("membership add and remove", func(t *testing.T) {
		at := created.Add(2 * time.Minute)
		if err := store.AddListMember(ctx, list.ID, "bob", "bob@example.com", at); err != nil {
			t.Fatalf("AddListMember failed: %v", err)
		}
		// Adding twice keeps a single entry.
		if err := store.AddListMember(ctx, list.ID, "bob", "bob@example.com", at); err != nil {
			t.Fatalf("AddListMember (again) failed: %v", err)
		}

		got, _ := store.GetList(ctx, list.ID)
		if len(got.Members) != 2 || got.Members[1] != "bob" {
			t.Fatalf("Members = %v, want [alice bob]", got.Members)
		}
		if got.MemberEmails["bob"] != "bob@example.com" {
			t.Errorf("MemberEmails = %v", got.MemberEmails)
		}

		bobLists, err := store.ListListsForMember(ctx, "bob")
		if err != nil {
			t.Fatalf("ListListsForMember failed: %v", err)
		}
		if len(bobLists) != 1 {
			t.Errorf("bob lists = %d, want 1", len(bobLists))
		}

		if err := store.RemoveListMember(ctx, list.ID, "bob", at.Add(time.Second)); err != nil {
			t.Fatalf("RemoveListMember failed: %v", err)
		}
		got, _ = store.GetList(ctx, list.ID)
		if len(got.Members) != 1 {
			t.Errorf("Members after removal = %v", got.Members)
		}
		if _, ok := got.MemberEmails["bob"]; ok {
			t.Error("expected bob's email entry to be removed")
		}
	})

	t.Run("DeleteList leaves items in place", func(t *testing.T) {
		item := &models.Item{ListID: list.ID, Name: "Leite", AddedBy: "alice"}
		if err := store.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if err := store.DeleteList(ctx, list.ID); err != nil {
			t.Fatalf("DeleteList failed: %v", err)
		}
		if _, err := store.GetList(ctx, list.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected deleted list to be gone, got %v", err)
		}
		items, err := store.ListItems(ctx, list.ID)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("orphaned items = %d, want 1", len(items))
		}
		if err := store.DeleteList(ctx, list.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second DeleteList: expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStoreItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := &models.Item{
		ListID:    "list-1",
		Name:      "Leite",
		Quantity:  floatPtr(2),
		UnitPrice: floatPtr(4.5),
		AddedBy:   "alice",
	}
	if err := store.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	got, err := store.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Quantity == nil || *got.Quantity != 2 || got.UnitPrice == nil || *got.UnitPrice != 4.5 {
		t.Errorf("unexpected numbers: quantity=%v unitPrice=%v", got.Quantity, got.UnitPrice)
	}

	t.Run("UpdateItem clears numbers to NULL", func(t *testing.T) {
		done := true
		patch := models.ItemPatch{Quantity: models.ClearNumber(), Completed: &done}
		if err := store.UpdateItem(ctx, item.ID, patch, time.Now()); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		got, _ := store.GetItem(ctx, item.ID)
		if got.Quantity != nil {
			t.Errorf("Quantity = %v, want nil", *got.Quantity)
		}
		if got.UnitPrice == nil || *got.UnitPrice != 4.5 {
			t.Error("UnitPrice should be left alone")
		}
		if !got.Completed {
			t.Error("expected item to be completed")
		}
	})

	t.Run("UpdateItem not found", func(t *testing.T) {
		name := "x"
		err := store.UpdateItem(ctx, "missing", models.ItemPatch{Name: &name}, time.Now())
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteItemsByList", func(t *testing.T) {
		store.CreateItem(ctx, &models.Item{ListID: "list-1", Name: "Pão", AddedBy: "alice"})
		n, err := store.DeleteItemsByList(ctx, "list-1")
		if err != nil {
			t.Fatalf("DeleteItemsByList failed: %v", err)
		}
		if n != 2 {
			t.Errorf("deleted %d items, want 2", n)
		}
		if err := store.DeleteItem(ctx, item.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.DisplayName != "alice" {
		t.Errorf("DisplayName = %q, want email local part", user.DisplayName)
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail = %v, %v", byEmail, err)
	}
	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown email, got %v, %v", missing, err)
	}

	t.Run("UpsertProfile keeps password hash", func(t *testing.T) {
		err := store.UpsertProfile(ctx, &models.User{
			ID:          user.ID,
			Email:       "alice@example.com",
			DisplayName: "Alice",
			PhotoURL:    "https://example.com/a.png",
		})
		if err != nil {
			t.Fatalf("UpsertProfile failed: %v", err)
		}
		got, _ := store.GetUserByID(ctx, user.ID)
		if got.DisplayName != "Alice" || got.PhotoURL != "https://example.com/a.png" {
			t.Errorf("profile not updated: %+v", got)
		}
		if got.PasswordHash != "hash" {
			t.Errorf("PasswordHash = %q, want preserved", got.PasswordHash)
		}
	})

	t.Run("GetUsersByIDs omits unknown users", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{user.ID, "ghost"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 || users[user.ID] == nil {
			t.Errorf("users = %v", users)
		}
	})

	t.Run("push tokens", func(t *testing.T) {
		store.AddPushToken(ctx, user.ID, "tok-1")
		store.AddPushToken(ctx, user.ID, "tok-1")
		store.AddPushToken(ctx, user.ID, "tok-2")
		tokens, err := store.GetPushTokens(ctx, []string{user.ID, "ghost"})
		if err != nil {
			t.Fatalf("GetPushTokens failed: %v", err)
		}
		if len(tokens[user.ID]) != 2 {
			t.Errorf("tokens = %v, want 2 for user", tokens)
		}
	})
}

func TestSQLiteStoreWatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lists, err := store.WatchLists(ctx, "bob")
	if err != nil {
		t.Fatalf("WatchLists failed: %v", err)
	}
	defer lists.Cancel()

	if got := nextSnapshot(t, lists); len(got) != 0 {
		t.Fatalf("initial snapshot = %d lists, want 0", len(got))
	}

	list := &models.List{Name: "Casa", OwnerID: "alice", Members: []string{"alice"}, ShareCode: "QWE456"}
	if err := store.CreateList(ctx, list); err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	if err := store.AddListMember(ctx, list.ID, "bob", "bob@example.com", time.Now()); err != nil {
		t.Fatalf("AddListMember failed: %v", err)
	}
	if got := nextSnapshot(t, lists); len(got) != 1 || got[0].ID != list.ID {
		t.Fatalf("snapshot after join = %v, want the shared list", got)
	}

	items, err := store.WatchItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("WatchItems failed: %v", err)
	}
	defer items.Cancel()
	nextSnapshot(t, items)

	if err := store.CreateItem(ctx, &models.Item{ListID: list.ID, Name: "Café", AddedBy: "bob"}); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if got := nextSnapshot(t, items); len(got) != 1 || got[0].Name != "Café" {
		t.Errorf("items snapshot = %v", got)
	}

	if err := store.RemoveListMember(ctx, list.ID, "bob", time.Now()); err != nil {
		t.Fatalf("RemoveListMember failed: %v", err)
	}
	if got := nextSnapshot(t, lists); len(got) != 0 {
		t.Errorf("snapshot after removal = %d lists, want 0", len(got))
	}
}
