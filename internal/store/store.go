// Package store persists the domain records and the audit log in SQLite.
// Ledger entries are never stored: they are recomputed from these records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"
	"microgestion/internal/logger"
)

const dateLayout = "2006-01-02"

// Store manages a SQLite database connection.
type Store struct {
	db     *sql.DB
	dbPath string
	log    zerolog.Logger
}

// Open opens the database at dbPath, creating it and its schema if needed.
// Foreign keys and WAL mode are enabled.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	const op = "store.Open"

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create database directory: %w", op, err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to initialize schema: %w", op, err)
	}

	s := &Store{
		db:     db,
		dbPath: dbPath,
		log:    logger.WithComponent("store"),
	}
	s.log.Debug().Str("path", dbPath).Msg("Database opened")

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
