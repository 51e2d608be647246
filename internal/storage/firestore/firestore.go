// Package firestore provides a Cloud Firestore implementation of the storage.Store interface.
//
// Documents live in three top-level collections: lists, items and users.
// Live queries are Firestore snapshot listeners.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/reginaldodesouza61/listas-compras/internal/realtime"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
)

const (
	listsCollection = "lists"
	itemsCollection = "items"
	usersCollection = "users"
)

// Ensure FirestoreStore implements storage.Store
var _ storage.Store = (*FirestoreStore)(nil)

// FirestoreStore implements storage.Store on a Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// New wraps an initialized client. The store owns the client and closes it on Close.
func New(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Close closes the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) lists() *firestore.CollectionRef {
	return s.client.Collection(listsCollection)
}

func (s *FirestoreStore) items() *firestore.CollectionRef {
	return s.client.Collection(itemsCollection)
}

func (s *FirestoreStore) users() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

// wrapErr maps a NotFound status to storage.ErrNotFound.
func wrapErr(err error, action, what string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// watchQuery turns a snapshot listener into a realtime stream. Every query
// snapshot is decoded in full with decode.
func watchQuery[T any](ctx context.Context, q firestore.Query, decode func(*firestore.DocumentSnapshot) (T, error)) *realtime.Stream[T] {
	return realtime.NewStream(ctx, func(ctx context.Context, emit func([]T) bool) error {
		it := q.Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					return nil
				}
				return fmt.Errorf("snapshot listener failed: %w", err)
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}

			out := make([]T, 0, len(docs))
			for _, doc := range docs {
				v, err := decode(doc)
				if err != nil {
					return err
				}
				out = append(out, v)
			}
			if !emit(out) {
				return nil
			}
		}
	})
}
