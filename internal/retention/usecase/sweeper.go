package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rideshare-functions/internal/retention/domain"
	"rideshare-functions/pkg/docstore"
	"rideshare-functions/pkg/metrics"
)

// BatchSize is the number of documents per committed batch. Each document
// costs two writes (archive copy + delete), so a batch is 400 writes, well
// under docstore.MaxBatchWrites.
const BatchSize = 200

// Sweeper archives and purges documents older than a cutoff
type Sweeper struct {
	store  docstore.Store
	logger *slog.Logger
}

func NewSweeper(store docstore.Store, logger *slog.Logger) *Sweeper {
	return &Sweeper{store: store, logger: logger.With("component", "retention_sweeper")}
}

// Sweep moves every document of target whose date field is before cutoff into
// the archive collection. Batches are committed one after another; if a commit
// fails the sweep stops and the returned Result counts only committed documents.
func (s *Sweeper) Sweep(ctx context.Context, target domain.Target, cutoff time.Time) (domain.Result, error) {
	start := time.Now()
	defer func() {
		metrics.SweepDuration.WithLabelValues(target.Collection).Observe(time.Since(start).Seconds())
	}()

	res := domain.Result{Target: target}
	log := s.logger.With("collection", target.Collection, "cutoff", cutoff)

	docs, err := s.store.QueryBefore(ctx, target.Collection, target.DateField, cutoff)
	if err != nil {
		metrics.SweepFailures.WithLabelValues(target.Collection).Inc()
		return res, fmt.Errorf("sweep %s: %w", target.Collection, err)
	}
	res.Matched = len(docs)

	if len(docs) == 0 {
		log.Info("no expired documents")
		return res, nil
	}

	for i := 0; i < len(docs); i += BatchSize {
		if err := ctx.Err(); err != nil {
			metrics.SweepFailures.WithLabelValues(target.Collection).Inc()
			return res, fmt.Errorf("sweep %s interrupted after %d documents: %w", target.Collection, res.Processed, err)
		}

		end := min(i+BatchSize, len(docs))
		chunk := docs[i:end]

		batch := s.store.NewBatch()
		for _, doc := range chunk {
			batch.Set(target.ArchiveCollection, doc.ID, doc.Data)
			batch.Delete(target.Collection, doc.ID)
		}

		if err := batch.Commit(ctx); err != nil {
			metrics.SweepFailures.WithLabelValues(target.Collection).Inc()
			log.Error("batch commit failed",
				"batch", res.Batches+1,
				"processed", res.Processed,
				"remaining", len(docs)-res.Processed,
				"error", err,
			)
			return res, fmt.Errorf("sweep %s: batch %d: %w", target.Collection, res.Batches+1, err)
		}

		res.Batches++
		res.Processed += len(chunk)
		metrics.BatchesCommitted.WithLabelValues(target.Collection).Inc()
		metrics.DocumentsArchived.WithLabelValues(target.Collection).Add(float64(len(chunk)))
		log.Debug("batch committed", "batch", res.Batches, "documents", len(chunk))
	}

	log.Info("sweep complete", "archived", res.Processed, "batches", res.Batches)
	return res, nil
}
