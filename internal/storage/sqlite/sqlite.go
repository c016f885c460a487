// Package sqlite persists the ledger blob in a small key/value table so
// deployments that already run on SQLite can keep the roster in the same
// database file as everything else.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"aidat/internal/core"
	"aidat/internal/storage"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads the blob stored under the fixed key. No row yet means a
// fresh database and yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (core.Snapshot, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM ledger_blobs WHERE key = ?`, storage.BlobKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStorageRead, err)
	}
	return storage.DecodeSnapshot(value)
}

// Save upserts the blob under the fixed key in a single statement.
func (s *Store) Save(ctx context.Context, snapshot core.Snapshot) error {
	data, err := storage.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ledger_blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		storage.BlobKey, data)
	if err != nil {
		return fmt.Errorf("save ledger blob: %w", err)
	}
	slog.DebugContext(ctx, "Ledger blob saved to SQLite", "residents", len(snapshot))
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
