// Package store persists cards in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Registered driver names.
const (
	DriverPure = "sqlite"  // modernc.org/sqlite, no cgo
	DriverCgo  = "sqlite3" // github.com/mattn/go-sqlite3
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrUnknownDriver is returned for driver names other than DriverPure and DriverCgo.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Store is the SQLite-backed card repository.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a private in-memory database.
func Open(driver, path string, logger *slog.Logger) (*Store, error) {
	if driver != DriverPure && driver != DriverCgo {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s, err := New(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies the schema.
func New(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{db: db, logger: logger.With(slog.String("component", "store"))}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// RunInTransaction runs fn inside a transaction, committing on success and
// rolling back on error.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Stats counts rows per collection.
type Stats struct {
	Kanji         int
	Examples      int
	Phrases       int
	Conversations int
	Favorites     int
}

// Stats returns row counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	queries := []struct {
		sql string
		dst *int
	}{
		{"SELECT COUNT(*) FROM kanji", &st.Kanji},
		{"SELECT COUNT(*) FROM kanji_examples", &st.Examples},
		{"SELECT COUNT(*) FROM phrases", &st.Phrases},
		{"SELECT COUNT(*) FROM conversations", &st.Conversations},
		{"SELECT (SELECT COUNT(*) FROM kanji WHERE is_favorite = 1) + (SELECT COUNT(*) FROM phrases WHERE is_favorite = 1)", &st.Favorites},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.sql).Scan(q.dst); err != nil {
			return Stats{}, fmt.Errorf("counting rows: %w", err)
		}
	}
	return st, nil
}
