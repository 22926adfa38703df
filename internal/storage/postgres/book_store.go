// Package postgres provides the Postgres-backed book store.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booklore/bookstore-crawler/internal/catalog"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for book rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// poolIface is the slice of pgxpool.Pool the store depends on; pgxmock
// satisfies it in tests.
type poolIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// BookStore writes book rows into Postgres with insert-or-ignore
// semantics keyed on the unique title column.
type BookStore struct {
	pool  poolIface
	table string
}

// NewBookStore creates a Postgres-backed BookStore using the provided config.
func NewBookStore(ctx context.Context, cfg Config) (*BookStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "books"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &BookStore{pool: pool, table: table}, nil
}

// NewBookStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewBookStoreWithPool(pool poolIface, table string) (*BookStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "books"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &BookStore{pool: pool, table: table}, nil
}

// EnsureSchema creates the books table when it does not exist yet.
func (s *BookStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	title TEXT UNIQUE NOT NULL,
	price NUMERIC NOT NULL,
	rating INTEGER,
	availability TEXT,
	category TEXT,
	image_url TEXT
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertBooks inserts the batch inside a single transaction, skipping rows
// whose title is already present, and commits once at the end. It returns
// the number of rows actually inserted.
func (s *BookStore) UpsertBooks(ctx context.Context, books []catalog.Book) (int64, error) {
	if len(books) == 0 {
		return 0, nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	query := fmt.Sprintf(`
INSERT INTO %s (title, price, rating, availability, category, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (title) DO NOTHING`, s.table)

	var inserted int64
	for _, b := range books {
		tag, err := tx.Exec(ctx, query,
			b.Title,
			b.Price,
			b.Rating,
			b.Availability,
			b.Category,
			b.ImageURL,
		)
		if err != nil {
			return 0, fmt.Errorf("insert book %q: %w", b.Title, err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

// Ping verifies the database connection is alive.
func (s *BookStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *BookStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

var _ catalog.BookStore = (*BookStore)(nil)
