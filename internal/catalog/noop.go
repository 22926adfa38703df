package catalog

import "context"

// NoopBookStore is a book store that performs no operations. It is useful
// for running the crawler locally without a real database connection.
type NoopBookStore struct{}

// UpsertBooks discards the batch and reports zero rows inserted.
func (NoopBookStore) UpsertBooks(_ context.Context, _ []Book) (int64, error) { return 0, nil }

// Ping always succeeds.
func (NoopBookStore) Ping(_ context.Context) error { return nil }

// Close does nothing.
func (NoopBookStore) Close() {}
