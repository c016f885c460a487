// Package storage defines the ledger persistence port and the blob layout
// shared by its backends.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"aidat/internal/core"
)

// BlobKey is the fixed identifier the ledger blob is stored under. It
// matches the key the previous version of the app used, so an exported
// blob moves between backends unchanged.
const BlobKey = "apartmanYonetim_v1"

// ErrStorageRead marks an absent-but-expected or malformed ledger blob.
// Callers recover by keeping whatever snapshot they already hold; the
// error is a diagnostic, never fatal.
var ErrStorageRead = errors.New("ledger blob unreadable")

// LedgerStore persists the roster as a single blob. Save overwrites the
// prior value in one synchronous write; Load soft-fails with
// ErrStorageRead instead of guessing at partial content.
type LedgerStore interface {
	Load(ctx context.Context) (core.Snapshot, error)
	Save(ctx context.Context, snapshot core.Snapshot) error
	Close() error
}

type blob struct {
	Residents core.Snapshot `json:"residents"`
}

// EncodeSnapshot serializes a snapshot into the persisted blob layout
// {"residents": [...]}.
func EncodeSnapshot(s core.Snapshot) ([]byte, error) {
	if s == nil {
		s = core.Snapshot{}
	}
	data, err := json.Marshal(blob{Residents: s})
	if err != nil {
		return nil, fmt.Errorf("encode ledger blob: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a persisted blob. Malformed JSON, a missing
// residents field, or a residents value that is not a list all report
// ErrStorageRead.
func DecodeSnapshot(data []byte) (core.Snapshot, error) {
	var raw struct {
		Residents json.RawMessage `json:"residents"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if len(raw.Residents) == 0 || string(raw.Residents) == "null" {
		return nil, fmt.Errorf("%w: residents field missing", ErrStorageRead)
	}
	var s core.Snapshot
	if err := json.Unmarshal(raw.Residents, &s); err != nil {
		return nil, fmt.Errorf("%w: residents is not a list: %v", ErrStorageRead, err)
	}
	return s, nil
}
