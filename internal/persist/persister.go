// Package persist writes collected batches to the export file and the
// relational store.
package persist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/booklore/bookstore-crawler/internal/catalog"
	"github.com/booklore/bookstore-crawler/internal/metrics"
)

// Persister coordinates the two persistence targets of a run. The export
// is written first; a store failure afterwards does not roll it back.
type Persister struct {
	exporter catalog.Exporter
	store    catalog.BookStore
	logger   *zap.Logger
}

// New builds a Persister.
func New(exporter catalog.Exporter, store catalog.BookStore, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{
		exporter: exporter,
		store:    store,
		logger:   logger,
	}
}

// Persist writes the batch to both targets. An empty batch is a no-op:
// nothing is written and no prior export is disturbed. A write failure on
// either target is logged and ends the persist step.
func (p *Persister) Persist(ctx context.Context, books []catalog.Book) error {
	if len(books) == 0 {
		p.logger.Info("empty batch, skipping persistence")
		return nil
	}

	if err := p.exporter.Export(books); err != nil {
		p.logger.Error("csv export failed", zap.Error(err))
		return fmt.Errorf("export batch: %w", err)
	}
	p.logger.Info("csv export written", zap.Int("records", len(books)))

	inserted, err := p.store.UpsertBooks(ctx, books)
	if err != nil {
		p.logger.Error("store write failed", zap.Error(err))
		return fmt.Errorf("store batch: %w", err)
	}
	metrics.ObserveRowsPersisted(inserted)
	p.logger.Info("store write committed",
		zap.Int("records", len(books)),
		zap.Int64("inserted", inserted),
		zap.Int64("duplicates_skipped", int64(len(books))-inserted))
	return nil
}
