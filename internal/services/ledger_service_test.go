package services

import (
	"context"
	"fmt"
	"testing"

	"aidat/internal/core"
	"aidat/internal/storage"
	"aidat/internal/storage/memory"
)

// recordingStore wraps the memory backend and counts Save calls so tests
// can assert that declined confirmations never persist.
type recordingStore struct {
	*memory.Store
	saves int
}

func (r *recordingStore) Save(ctx context.Context, s core.Snapshot) error {
	r.saves++
	return r.Store.Save(ctx, s)
}

type failingStore struct{}

func (failingStore) Load(context.Context) (core.Snapshot, error) {
	return nil, fmt.Errorf("%w: boom", storage.ErrStorageRead)
}
func (failingStore) Save(context.Context, core.Snapshot) error {
	return fmt.Errorf("disk gone")
}
func (failingStore) Close() error { return nil }

func newTestService(t *testing.T) (*LedgerService, *recordingStore) {
	t.Helper()
	store := &recordingStore{Store: memory.New()}
	return NewLedgerService(context.Background(), store, nil), store
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r := svc.Add(ctx, ResidentInput{FlatNo: "1", FullName: "A"})
		if r.ID == "" {
			t.Fatalf("empty id on add %d", i)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate id %q", r.ID)
		}
		seen[r.ID] = true
	}
	if len(svc.List()) != 50 {
		t.Fatalf("expected 50 residents, got %d", len(svc.List()))
	}
}

func TestAddPersistsAndPreservesOrder(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first := svc.Add(ctx, ResidentInput{FlatNo: "3", FullName: "C"})
	second := svc.Add(ctx, ResidentInput{FlatNo: "1", FullName: "A"})

	snap := svc.List()
	if snap[0].ID != first.ID || snap[1].ID != second.ID {
		t.Fatalf("insertion order not preserved: %+v", snap)
	}
	if store.saves != 2 {
		t.Fatalf("expected 2 saves, got %d", store.saves)
	}

	// a fresh service over the same store sees the persisted roster
	again := NewLedgerService(ctx, store, nil)
	if got := again.List(); len(got) != 2 || got[0].ID != first.ID {
		t.Fatalf("persisted roster mismatch: %+v", got)
	}
}

func TestUpdateMergesAndKeepsID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r := svc.Add(ctx, ResidentInput{
		FlatNo:     "4",
		FullName:   "Ayşe Yılmaz",
		MonthlyFee: core.Money{Cents: 35000},
		Note:       "eski not",
	})

	paid := core.Money{Cents: 20000}
	note := ""
	svc.Update(ctx, r.ID, ResidentPatch{PaidThisMonth: &paid, Note: &note})

	got := svc.List()[0]
	if got.ID != r.ID {
		t.Fatalf("id must be immutable across update: %q != %q", got.ID, r.ID)
	}
	if got.PaidThisMonth != paid || got.Note != "" {
		t.Fatalf("patch not merged: %+v", got)
	}
	if got.FlatNo != "4" || got.FullName != "Ayşe Yılmaz" || got.MonthlyFee.Cents != 35000 {
		t.Fatalf("untouched fields must survive the merge: %+v", got)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	svc.Add(ctx, ResidentInput{FlatNo: "1", FullName: "A"})

	before := svc.List()
	savesBefore := store.saves
	name := "B"
	svc.Update(ctx, "no-such-id", ResidentPatch{FullName: &name})

	after := svc.List()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("unknown id must not change the roster: %+v", after)
	}
	if store.saves != savesBefore {
		t.Fatalf("unknown id must not persist, saves went %d -> %d", savesBefore, store.saves)
	}
}

func TestRemoveConfirmedEmptiesAndPersists(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	r := svc.Add(ctx, ResidentInput{FlatNo: "1", FullName: "Ali Demir"})

	p := svc.RequestRemoval(r.ID)
	if p.Kind != PendingRemove || p.ResidentID != r.ID {
		t.Fatalf("unexpected pending: %+v", p)
	}
	if p.Label != "1 - Ali Demir" {
		t.Fatalf("prompt label mismatch: %q", p.Label)
	}

	savesBefore := store.saves
	if !svc.Confirm(ctx, p.Token) {
		t.Fatalf("confirm of a live token must succeed")
	}
	if len(svc.List()) != 0 {
		t.Fatalf("roster should be empty after confirmed removal")
	}
	if store.saves != savesBefore+1 {
		t.Fatalf("confirmed removal must persist once, saves went %d -> %d", savesBefore, store.saves)
	}

	// the token is spent
	if svc.Confirm(ctx, p.Token) {
		t.Fatalf("a spent token must be a no-op")
	}
}

func TestRemoveDeclinedChangesNothing(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	r := svc.Add(ctx, ResidentInput{FlatNo: "1", FullName: "Ali Demir"})

	p := svc.RequestRemoval(r.ID)
	savesBefore := store.saves
	if !svc.Cancel(p.Token) {
		t.Fatalf("cancel of a live token must succeed")
	}
	if len(svc.List()) != 1 {
		t.Fatalf("declined removal must not touch the roster")
	}
	if store.saves != savesBefore {
		t.Fatalf("declined removal must not persist, saves went %d -> %d", savesBefore, store.saves)
	}
	if svc.Cancel(p.Token) {
		t.Fatalf("token must be gone after cancel")
	}
}

func TestRemoveUnknownIDConfirmsToNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.Add(ctx, ResidentInput{FlatNo: "1", FullName: "A"})

	p := svc.RequestRemoval("no-such-id")
	if !svc.Confirm(ctx, p.Token) {
		t.Fatalf("confirm should report the token as known")
	}
	if len(svc.List()) != 1 {
		t.Fatalf("removing an unknown id must leave the roster intact")
	}
}

func TestClearConfirmedAlwaysEmpties(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		svc.Add(ctx, ResidentInput{FlatNo: "x", FullName: "Y"})
	}

	p := svc.RequestClear()
	if !svc.Confirm(ctx, p.Token) {
		t.Fatalf("confirm clear failed")
	}
	if len(svc.List()) != 0 {
		t.Fatalf("clear must empty the roster")
	}

	// clearing an already-empty roster is fine too
	p = svc.RequestClear()
	if !svc.Confirm(ctx, p.Token) || len(svc.List()) != 0 {
		t.Fatalf("clear on empty roster must stay empty")
	}
}

func TestConfirmUnknownTokenIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	if svc.Confirm(context.Background(), "tok_bogus") {
		t.Fatalf("unknown token must report false")
	}
	if svc.Cancel("tok_bogus") {
		t.Fatalf("unknown token must report false")
	}
}

func TestCorruptBlobStartsEmpty(t *testing.T) {
	store := memory.New()
	store.SetRaw([]byte("{broken"))
	svc := NewLedgerService(context.Background(), store, nil)
	if len(svc.List()) != 0 {
		t.Fatalf("corrupt blob must yield an empty roster")
	}
	// and the service still works afterwards
	svc.Add(context.Background(), ResidentInput{FlatNo: "1", FullName: "A"})
	if len(svc.List()) != 1 {
		t.Fatalf("service must recover after a corrupt load")
	}
}

func TestSaveFailureIsAbsorbed(t *testing.T) {
	svc := NewLedgerService(context.Background(), failingStore{}, nil)
	r := svc.Add(context.Background(), ResidentInput{FlatNo: "1", FullName: "A"})
	if r.ID == "" || len(svc.List()) != 1 {
		t.Fatalf("mutations must survive a failing store")
	}
}

func TestOnChangeFiresAfterMutations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var got []int
	svc.OnChange(func(s core.Snapshot) { got = append(got, len(s)) })

	r := svc.Add(ctx, ResidentInput{FlatNo: "1", FullName: "A"})
	name := "B"
	svc.Update(ctx, r.ID, ResidentPatch{FullName: &name})
	p := svc.RequestRemoval(r.ID)
	svc.Cancel(p.Token) // no change event for a declined prompt
	p = svc.RequestRemoval(r.ID)
	svc.Confirm(ctx, p.Token)

	want := []int{1, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("expected %d change events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("change event %d expected roster size %d, got %d", i, want[i], got[i])
		}
	}
}
