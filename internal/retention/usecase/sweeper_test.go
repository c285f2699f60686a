package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"rideshare-functions/internal/retention/domain"
	"rideshare-functions/pkg/docstore"
	"rideshare-functions/pkg/logging"
)

var (
	cutoff = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rides  = domain.Target{Collection: "rides", DateField: "rideDate", ArchiveCollection: "rides_archive"}
)

// failingStore wraps a MemoryStore and fails the n-th batch commit (1-based).
type failingStore struct {
	*docstore.MemoryStore
	failOn  int
	commits int
	writes  []int
}

func (f *failingStore) NewBatch() docstore.Batch {
	return &failingBatch{Batch: f.MemoryStore.NewBatch(), parent: f}
}

type failingBatch struct {
	docstore.Batch
	parent *failingStore
}

func (b *failingBatch) Commit(ctx context.Context) error {
	b.parent.commits++
	b.parent.writes = append(b.parent.writes, b.Len())
	if b.parent.commits == b.parent.failOn {
		return errors.New("deadline exceeded")
	}
	return b.Batch.Commit(ctx)
}

func seedRides(s *docstore.MemoryStore, n int, at time.Time) {
	for i := 0; i < n; i++ {
		s.Seed("rides", fmt.Sprintf("ride-%04d", i), map[string]interface{}{
			"rideDate": at.Add(time.Duration(i) * time.Second),
			"status":   "completed",
			"riderId":  fmt.Sprintf("rider-%d", i),
		})
	}
}

func TestSweepArchivesAndDeletesExpired(t *testing.T) {
	store := docstore.NewMemoryStore()
	old := map[string]interface{}{"rideDate": cutoff.Add(-48 * time.Hour), "status": "completed", "riderId": "r1"}
	store.Seed("rides", "old", old)
	store.Seed("rides", "future", map[string]interface{}{"rideDate": cutoff.Add(time.Hour)})
	store.Seed("rides", "exact", map[string]interface{}{"rideDate": cutoff})

	s := NewSweeper(store, logging.Discard())
	res, err := s.Sweep(context.Background(), rides, cutoff)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Processed != 1 || res.Batches != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	ctx := context.Background()
	if doc, _ := store.Get(ctx, "rides", "old"); doc != nil {
		t.Fatalf("expired ride still live")
	}
	archived, _ := store.Get(ctx, "rides_archive", "old")
	if archived == nil || !reflect.DeepEqual(archived.Data, old) {
		t.Fatalf("archive copy differs: %+v", archived)
	}
	for _, id := range []string{"future", "exact"} {
		if doc, _ := store.Get(ctx, "rides", id); doc == nil {
			t.Fatalf("%s should be untouched", id)
		}
		if doc, _ := store.Get(ctx, "rides_archive", id); doc != nil {
			t.Fatalf("%s should not be archived", id)
		}
	}
}

func TestSweepEmptyPerformsNoWrites(t *testing.T) {
	store := &failingStore{MemoryStore: docstore.NewMemoryStore()}
	s := NewSweeper(store, logging.Discard())

	res, err := s.Sweep(context.Background(), rides, cutoff)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Processed != 0 || res.Batches != 0 || store.commits != 0 {
		t.Fatalf("expected no work, got %+v commits=%d", res, store.commits)
	}
}

func TestSweepChunksIntoBoundedBatches(t *testing.T) {
	store := &failingStore{MemoryStore: docstore.NewMemoryStore()}
	seedRides(store.MemoryStore, 450, cutoff.Add(-72*time.Hour))
	s := NewSweeper(store, logging.Discard())

	res, err := s.Sweep(context.Background(), rides, cutoff)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Processed != 450 || res.Batches != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	want := []int{400, 400, 100}
	if !reflect.DeepEqual(store.writes, want) {
		t.Fatalf("writes per batch = %v, want %v", store.writes, want)
	}
	for _, w := range store.writes {
		if w >= docstore.MaxBatchWrites {
			t.Fatalf("batch of %d writes reaches the store ceiling", w)
		}
	}
	if store.Count("rides") != 0 || store.Count("rides_archive") != 450 {
		t.Fatalf("live=%d archive=%d", store.Count("rides"), store.Count("rides_archive"))
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	store := &failingStore{MemoryStore: docstore.NewMemoryStore()}
	seedRides(store.MemoryStore, 5, cutoff.Add(-time.Hour))
	s := NewSweeper(store, logging.Discard())

	if _, err := s.Sweep(context.Background(), rides, cutoff); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	commits := store.commits
	res, err := s.Sweep(context.Background(), rides, cutoff)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.Processed != 0 || store.commits != commits {
		t.Fatalf("second sweep did work: %+v", res)
	}
	if store.Count("rides_archive") != 5 {
		t.Fatalf("archive count %d", store.Count("rides_archive"))
	}
}

func TestSweepFailureKeepsCommittedBatches(t *testing.T) {
	store := &failingStore{MemoryStore: docstore.NewMemoryStore(), failOn: 2}
	seedRides(store.MemoryStore, 450, cutoff.Add(-72*time.Hour))
	s := NewSweeper(store, logging.Discard())

	res, err := s.Sweep(context.Background(), rides, cutoff)
	if err == nil {
		t.Fatalf("expected error from failed batch")
	}
	if res.Processed != BatchSize || res.Batches != 1 {
		t.Fatalf("unexpected partial result %+v", res)
	}
	if store.commits != 2 {
		t.Fatalf("sweep continued after failure: %d commits", store.commits)
	}
	if store.Count("rides_archive") != BatchSize || store.Count("rides") != 450-BatchSize {
		t.Fatalf("live=%d archive=%d", store.Count("rides"), store.Count("rides_archive"))
	}

	// A rerun only picks up the remainder.
	store.failOn = 0
	res, err = s.Sweep(context.Background(), rides, cutoff)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if res.Processed != 450-BatchSize {
		t.Fatalf("rerun processed %d", res.Processed)
	}
}

func TestSweepStopsOnCancelledContext(t *testing.T) {
	store := docstore.NewMemoryStore()
	seedRides(store, 3, cutoff.Add(-time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSweeper(store, logging.Discard()).Sweep(ctx, rides, cutoff)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.Count("rides") != 3 {
		t.Fatalf("documents were removed")
	}
}
