// Package walker drives sequential traversal across listing pages.
package walker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/booklore/bookstore-crawler/internal/catalog"
	"github.com/booklore/bookstore-crawler/internal/extract"
	"github.com/booklore/bookstore-crawler/internal/metrics"
)

// Config controls traversal behavior.
type Config struct {
	// Delay is the fixed pause applied after each item fetch, trading
	// throughput for politeness to the source site.
	Delay time.Duration
	// MaxPages caps the number of listing pages visited; 0 means no cap.
	MaxPages int
}

// Walker fetches listing pages one at a time, extracts every item on each,
// and follows the next link until none remains. Fetch and parse are
// strictly sequential; one request is outstanding at any moment.
type Walker struct {
	fetcher   catalog.Fetcher
	extractor *extract.Extractor
	cfg       Config
	logger    *zap.Logger
}

// New builds a Walker.
func New(fetcher catalog.Fetcher, extractor *extract.Extractor, cfg Config, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		fetcher:   fetcher,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Walk traverses listing pages starting at startURL and returns the books
// accumulated in visit order. The accumulator is returned even when the
// walk aborts on a fetch or parse failure: a non-empty slice alongside a
// non-nil error is valid partial output, not garbage.
func (w *Walker) Walk(ctx context.Context, startURL string) ([]catalog.Book, error) {
	var books []catalog.Book

	pageURL := startURL
	pages := 0
	for pageURL != "" {
		if w.cfg.MaxPages > 0 && pages >= w.cfg.MaxPages {
			w.logger.Warn("page cap reached, stopping walk",
				zap.Int("max_pages", w.cfg.MaxPages))
			break
		}
		pages++
		w.logger.Info("visiting listing page", zap.String("url", pageURL))

		doc, err := w.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			metrics.ObservePage("error")
			return books, err
		}
		metrics.ObservePage("ok")

		listing, err := w.extractor.ParseListing(doc, pageURL)
		if err != nil {
			return books, err
		}

		for _, itemURL := range listing.ItemURLs {
			book, err := w.visitItem(ctx, itemURL)
			if err != nil {
				return books, err
			}
			books = append(books, book)
			metrics.ObserveBookExtracted()
			w.pause(ctx)
		}

		pageURL = listing.NextPageURL
	}

	w.logger.Info("walk finished",
		zap.Int("pages", pages),
		zap.Int("books", len(books)))
	return books, nil
}

func (w *Walker) visitItem(ctx context.Context, itemURL string) (catalog.Book, error) {
	doc, err := w.fetcher.Fetch(ctx, itemURL)
	if err != nil {
		metrics.ObservePage("error")
		return catalog.Book{}, err
	}
	metrics.ObservePage("ok")
	return w.extractor.ParseDetail(doc, itemURL)
}

// pause blocks for the configured inter-item delay, waking early if the
// context finishes.
func (w *Walker) pause(ctx context.Context) {
	if w.cfg.Delay <= 0 {
		return
	}
	timer := time.NewTimer(w.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
