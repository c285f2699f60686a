package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) QueryBefore(ctx context.Context, collection, field string, cutoff time.Time) ([]Document, error) {
	iter := s.client.Collection(collection).
		Where(field, "<", cutoff).
		OrderBy(field, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s where %s < %s: %w", collection, field, cutoff.Format(time.RFC3339), err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error {
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, toFirestore(data), opts...); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(partial))
	for k, v := range partial {
		updates = append(updates, firestore.Update{Path: k, Value: toFirestoreValue(v)})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) NewBatch() Batch {
	return &firestoreBatch{client: s.client, batch: s.client.Batch()}
}

type firestoreBatch struct {
	client *firestore.Client
	batch  *firestore.WriteBatch
	n      int
}

func (b *firestoreBatch) Set(collection, id string, data map[string]interface{}) {
	b.batch.Set(b.client.Collection(collection).Doc(id), toFirestore(data))
	b.n++
}

func (b *firestoreBatch) Delete(collection, id string) {
	b.batch.Delete(b.client.Collection(collection).Doc(id))
	b.n++
}

func (b *firestoreBatch) Len() int { return b.n }

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch of %d writes: %w", b.n, err)
	}
	return nil
}

func toFirestore(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = toFirestoreValue(v)
	}
	return out
}

func toFirestoreValue(v interface{}) interface{} {
	switch v {
	case Delete:
		return firestore.Delete
	case ServerTimestamp:
		return firestore.ServerTimestamp
	}
	return v
}
