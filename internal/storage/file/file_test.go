package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aidat/internal/core"
	"aidat/internal/storage"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %d residents", len(snap))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := core.Snapshot{
		{ID: "a1", FlatNo: "1", FullName: "Ali Demir", MonthlyFee: core.Money{Cents: 35000}, PaidThisMonth: core.Money{Cents: 35000}},
		{ID: "b2", FlatNo: "2", FullName: "Ayşe Yılmaz", MonthlyFee: core.Money{Cents: 35000}, Note: "eksik"},
	}
	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d residents, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("resident %d mismatch: %+v != %+v", i, got[i], want[i])
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := New(filepath.Join(t.TempDir(), "ledger.json"))
	ctx := context.Background()
	if err := s.Save(ctx, core.Snapshot{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, core.Snapshot{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty snapshot after overwrite, got %d", len(got))
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	cases := []string{
		"{not json",
		`{"other": 1}`,
		`{"residents": {"id": "x"}}`,
		`{"residents": null}`,
	}
	for _, raw := range cases {
		path := filepath.Join(t.TempDir(), "ledger.json")
		if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		s, _ := New(path)
		_, err := s.Load(context.Background())
		if !errors.Is(err, storage.ErrStorageRead) {
			t.Fatalf("%q expected ErrStorageRead, got %v", raw, err)
		}
	}
}
