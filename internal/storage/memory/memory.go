// Package memory is a map-backed ledger store for tests and single-shot
// dev runs. It honors the same blob layout and soft-fail contract as the
// durable backends, and can have a raw blob injected to exercise the
// corruption path.
package memory

import (
	"context"
	"sync"

	"aidat/internal/core"
	"aidat/internal/storage"
)

type Store struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	raw, ok := s.blobs[storage.BlobKey]
	s.mu.Unlock()
	if !ok {
		return core.Snapshot{}, nil
	}
	return storage.DecodeSnapshot(raw)
}

func (s *Store) Save(_ context.Context, snapshot core.Snapshot) error {
	data, err := storage.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[storage.BlobKey] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error {
	return nil
}

// SetRaw replaces the stored blob with arbitrary bytes. Tests use it to
// simulate a corrupted or hand-edited blob.
func (s *Store) SetRaw(raw []byte) {
	s.mu.Lock()
	s.blobs[storage.BlobKey] = raw
	s.mu.Unlock()
}

// Raw returns the stored blob bytes, if any.
func (s *Store) Raw() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.blobs[storage.BlobKey]
	return raw, ok
}
