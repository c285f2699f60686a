package docstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreQueryBeforeOrdersByField(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	s.Seed("rides", "c", map[string]interface{}{"rideDate": base.Add(-1 * time.Hour)})
	s.Seed("rides", "a", map[string]interface{}{"rideDate": base.Add(-3 * time.Hour)})
	s.Seed("rides", "b", map[string]interface{}{"rideDate": base})
	s.Seed("rides", "d", map[string]interface{}{"status": "requested"})

	docs, err := s.QueryBefore(context.Background(), "rides", "rideDate", base)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "a" || docs[1].ID != "c" {
		t.Fatalf("unexpected result %+v", docs)
	}
}

func TestMemoryStoreBatchIsAllOrNothing(t *testing.T) {
	s := NewMemoryStore()
	b := s.NewBatch()
	for i := 0; i <= MaxBatchWrites; i++ {
		b.Delete("rides", "x")
	}
	if err := b.Commit(context.Background()); err == nil {
		t.Fatalf("expected oversize batch to fail")
	}
	if s.Commits() != 0 {
		t.Fatalf("expected no commits, got %d", s.Commits())
	}
}

func TestMemoryStoreSentinels(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	s.Seed("users", "u1", map[string]interface{}{"fcmToken": "tok", "name": "Ann"})
	ctx := context.Background()

	if err := s.Update(ctx, "users", "u1", map[string]interface{}{"fcmToken": Delete}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Set(ctx, "users", "u1", map[string]interface{}{"verifiedAt": ServerTimestamp}, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	doc, _ := s.Get(ctx, "users", "u1")
	if _, ok := doc.Data["fcmToken"]; ok {
		t.Fatalf("expected fcmToken removed")
	}
	if doc.Data["name"] != "Ann" {
		t.Fatalf("merge dropped existing field: %+v", doc.Data)
	}
	if doc.Data["verifiedAt"] != fixed {
		t.Fatalf("expected server timestamp, got %v", doc.Data["verifiedAt"])
	}
}

func TestMemoryStoreUpdateMissingDocument(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "users", "nobody", map[string]interface{}{"x": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
