// Package file persists the ledger blob as a single JSON file, the Go
// stand-in for the browser's local storage.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"aidat/internal/core"
	"aidat/internal/storage"
)

type Store struct {
	path string
}

// New prepares a file-backed ledger store at path, creating the parent
// directory if needed. The file itself is created on first Save.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Load reads the blob. A missing file is a normal first run and yields an
// empty snapshot; a malformed file reports storage.ErrStorageRead.
func (s *Store) Load(ctx context.Context) (core.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return core.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrStorageRead, err)
	}
	return storage.DecodeSnapshot(data)
}

// Save overwrites the blob. The write goes to a temp file first and is
// renamed into place, so readers never observe a partial blob.
func (s *Store) Save(ctx context.Context, snapshot core.Snapshot) error {
	data, err := storage.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write ledger blob: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger blob: %w", err)
	}
	slog.DebugContext(ctx, "Ledger blob saved", "path", s.path, "residents", len(snapshot))
	return nil
}

func (s *Store) Close() error {
	return nil
}
