package docstore

import (
	"context"
	"errors"
	"time"
)

// MaxBatchWrites is the store's advertised per-batch write ceiling.
const MaxBatchWrites = 500

// ErrNotFound is returned by Update when the target document does not exist.
var ErrNotFound = errors.New("document not found")

type sentinel string

// Delete, used as a field value in Update or a merging Set, removes the field.
var Delete interface{} = sentinel("delete")

// ServerTimestamp, used as a field value, is replaced by the store's commit time.
var ServerTimestamp interface{} = sentinel("server-timestamp")

// Document is a single stored document.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Store is the subset of document store operations the handlers rely on.
type Store interface {
	// QueryBefore returns the documents of collection whose field is strictly
	// before cutoff, ordered by field ascending.
	QueryBefore(ctx context.Context, collection, field string, cutoff time.Time) ([]Document, error)

	// Get returns nil, nil when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)

	Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error

	// Update applies partial to an existing document.
	Update(ctx context.Context, collection, id string, partial map[string]interface{}) error

	NewBatch() Batch
}

// Batch accumulates writes that are committed atomically.
type Batch interface {
	Set(collection, id string, data map[string]interface{})
	Delete(collection, id string)
	Len() int
	Commit(ctx context.Context) error
}
