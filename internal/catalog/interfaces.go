package catalog

import (
	"context"
	"time"
)

// Fetcher retrieves one URL with a single network attempt and returns the
// raw document body. Retrying is a caller concern.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// BookStore writes book records into the relational table.
type BookStore interface {
	// UpsertBooks inserts the batch inside one transaction, skipping rows
	// whose title already exists. It returns the number of rows inserted.
	UpsertBooks(ctx context.Context, books []Book) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// Exporter writes the full batch to a flat export, replacing any prior one.
type Exporter interface {
	Export(books []Book) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
