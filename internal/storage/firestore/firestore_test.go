package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/reginaldodesouza61/listas-compras/internal/models"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

// newEmulatorStore connects to the Firestore emulator. Tests are skipped
// when FIRESTORE_EMULATOR_HOST is not set.
func newEmulatorStore(t *testing.T) *FirestoreStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "demo-listas")
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	store := New(client)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFirestoreStoreMembership(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()

	owner := uuid.NewString()
	list := &models.List{
		Name:         "Mercado",
		OwnerID:      owner,
		Members:      []string{owner},
		MemberEmails: map[string]string{owner: "owner@example.com"},
		ShareCode:    "F" + uuid.NewString()[:5],
	}
	if err := store.CreateList(ctx, list); err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	t.Cleanup(func() { store.DeleteList(ctx, list.ID) })

	guest := uuid.NewString()
	if err := store.AddListMember(ctx, list.ID, guest, "guest@example.com", time.Now()); err != nil {
		t.Fatalf("AddListMember failed: %v", err)
	}

	got, err := store.GetList(ctx, list.ID)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	if !got.IsMember(guest) || got.MemberEmails[guest] != "guest@example.com" {
		t.Errorf("guest not added: %+v", got)
	}

	found, err := store.FindListByShareCode(ctx, list.ShareCode)
	if err != nil || found.ID != list.ID {
		t.Errorf("FindListByShareCode = %v, %v", found, err)
	}

	if err := store.RemoveListMember(ctx, list.ID, guest, time.Now()); err != nil {
		t.Fatalf("RemoveListMember failed: %v", err)
	}
	got, _ = store.GetList(ctx, list.ID)
	if got.IsMember(guest) {
		t.Error("guest still a member")
	}
	if _, ok := got.MemberEmails[guest]; ok {
		t.Error("guest email entry still present")
	}

	if err := store.TouchList(ctx, "missing-"+uuid.NewString(), time.Now()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("TouchList on missing list: expected ErrNotFound, got %v", err)
	}
}

func TestFirestoreStoreItems(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()

	listID := uuid.NewString()
	qty := 2.0
	item := &models.Item{ListID: listID, Name: "Leite", Quantity: &qty, AddedBy: "alice"}
	if err := store.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	stream, err := store.WatchItems(ctx, listID)
	if err != nil {
		t.Fatalf("WatchItems failed: %v", err)
	}
	defer stream.Cancel()

	select {
	case docs := <-stream.Snapshots():
		if len(docs) != 1 || docs[0].Quantity == nil || *docs[0].Quantity != 2 {
			t.Errorf("snapshot = %v", docs)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}

	if err := store.UpdateItem(ctx, item.ID, models.ItemPatch{Quantity: models.ClearNumber()}, time.Now()); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	got, _ := store.GetItem(ctx, item.ID)
	if got.Quantity != nil {
		t.Errorf("Quantity = %v, want cleared", *got.Quantity)
	}

	n, err := store.DeleteItemsByList(ctx, listID)
	if err != nil || n != 1 {
		t.Errorf("DeleteItemsByList = %d, %v", n, err)
	}
}
