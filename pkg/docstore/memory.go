package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used for local runs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	now         func() time.Time
	commits     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		now:         time.Now,
	}
}

// Seed stores data without going through sentinel resolution.
func (m *MemoryStore) Seed(collection, id string, data map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[id] = copyData(data)
}

// Commits reports how many batches have been committed.
func (m *MemoryStore) Commits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.commits
}

// Count returns the number of documents in a collection.
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func (m *MemoryStore) QueryBefore(ctx context.Context, collection, field string, cutoff time.Time) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	type match struct {
		doc Document
		at  time.Time
	}
	var matches []match
	for id, data := range m.collections[collection] {
		at, ok := data[field].(time.Time)
		if !ok || !at.Before(cutoff) {
			continue
		}
		matches = append(matches, match{Document{ID: id, Data: copyData(data)}, at})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].at.Equal(matches[j].at) {
			return matches[i].doc.ID < matches[j].doc.ID
		}
		return matches[i].at.Before(matches[j].at)
	})

	out := make([]Document, 0, len(matches))
	for _, mt := range matches {
		out = append(out, mt.doc)
	}
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return &Document{ID: id, Data: copyData(data)}, nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(collection, id, data, merge, m.now())
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	m.set(collection, id, partial, true, m.now())
	return nil
}

func (m *MemoryStore) NewBatch() Batch {
	return &memoryBatch{store: m}
}

func (m *MemoryStore) collection(name string) map[string]map[string]interface{} {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]map[string]interface{})
		m.collections[name] = c
	}
	return c
}

// set must be called with mu held.
func (m *MemoryStore) set(collection, id string, data map[string]interface{}, merge bool, now time.Time) {
	docs := m.collection(collection)
	target := make(map[string]interface{})
	if existing, ok := docs[id]; ok && merge {
		target = existing
	}
	for k, v := range data {
		switch v {
		case Delete:
			delete(target, k)
		case ServerTimestamp:
			target[k] = now
		default:
			target[k] = v
		}
	}
	docs[id] = target
}

type memoryOp struct {
	collection string
	id         string
	data       map[string]interface{}
	delete     bool
}

type memoryBatch struct {
	store *MemoryStore
	ops   []memoryOp
}

func (b *memoryBatch) Set(collection, id string, data map[string]interface{}) {
	b.ops = append(b.ops, memoryOp{collection: collection, id: id, data: copyData(data)})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, memoryOp{collection: collection, id: id, delete: true})
}

func (b *memoryBatch) Len() int { return len(b.ops) }

func (b *memoryBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(b.ops) > MaxBatchWrites {
		return fmt.Errorf("batch of %d writes exceeds limit of %d", len(b.ops), MaxBatchWrites)
	}
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, op := range b.ops {
		if op.delete {
			delete(s.collection(op.collection), op.id)
			continue
		}
		s.set(op.collection, op.id, op.data, false, now)
	}
	s.commits++
	return nil
}

func copyData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
