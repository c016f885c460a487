// Package services owns the in-memory roster. LedgerService is the single
// writer: every mutation goes through it, persists synchronously, and then
// notifies listeners so the presentation layer can re-render.
package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"aidat/internal/core"
	"aidat/internal/notify"
	"aidat/internal/storage"
)

// ResidentInput carries the fields of a new roster entry. Text fields are
// trimmed by the caller; amounts are already coerced via core.ParseAmount.
type ResidentInput struct {
	FlatNo        string
	FullName      string
	MonthlyFee    core.Money
	PaidThisMonth core.Money
	Note          string
}

// ResidentPatch is a partial update; nil fields are left untouched. The
// record's ID can never be patched.
type ResidentPatch struct {
	FlatNo        *string
	FullName      *string
	MonthlyFee    *core.Money
	PaidThisMonth *core.Money
	Note          *string
}

// PendingKind distinguishes the two destructive operations that require
// confirmation before they mutate anything.
type PendingKind string

const (
	PendingRemove PendingKind = "remove"
	PendingClear  PendingKind = "clear"
)

// Pending is a not-yet-confirmed destructive operation. The presentation
// layer shows the prompt and posts the token back to Confirm or Cancel.
type Pending struct {
	Token      string
	Kind       PendingKind
	ResidentID string
	Label      string // "flatNo - fullName", for the prompt text
	createdAt  time.Time
}

// pendingTTL bounds how long an unanswered confirmation prompt stays
// valid before it is swept.
const pendingTTL = 15 * time.Minute

type LedgerService struct {
	mu        sync.Mutex
	store     storage.LedgerStore
	notifier  *notify.Client
	residents core.Snapshot
	pending   map[string]Pending
	onChange  []func(core.Snapshot)
}

// NewLedgerService loads the persisted roster through the store. An
// unreadable blob is logged and the service starts with an empty roster;
// the load never fails the caller.
func NewLedgerService(ctx context.Context, store storage.LedgerStore, notifier *notify.Client) *LedgerService {
	s := &LedgerService{
		store:    store,
		notifier: notifier,
		pending:  make(map[string]Pending),
	}
	snap, err := store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Ledger blob unreadable, starting with empty roster", "error", err)
		snap = core.Snapshot{}
	}
	s.residents = snap
	return s
}

// OnChange registers a callback invoked with a fresh snapshot after every
// persisted mutation.
func (s *LedgerService) OnChange(fn func(core.Snapshot)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// List returns a copy of the current roster in insertion order.
func (s *LedgerService) List() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.residents.Clone()
}

// Add appends a new resident with a freshly generated id and persists.
func (s *LedgerService) Add(ctx context.Context, in ResidentInput) core.Resident {
	s.mu.Lock()
	r := core.Resident{
		ID:            s.newIDLocked(),
		FlatNo:        in.FlatNo,
		FullName:      in.FullName,
		MonthlyFee:    in.MonthlyFee,
		PaidThisMonth: in.PaidThisMonth,
		Note:          in.Note,
	}
	s.residents = append(s.residents, r)
	snap := s.persistLocked(ctx, "add", r.ID)
	s.mu.Unlock()

	s.changed(ctx, "add", r.ID, snap)
	return r
}

// Update merges the patch over the resident with the given id and
// persists. An unknown id is a silent no-op: the UI only ever posts ids
// taken from the current snapshot.
func (s *LedgerService) Update(ctx context.Context, id string, patch ResidentPatch) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		slog.DebugContext(ctx, "Update for unknown resident ignored", "resident_id", id)
		return
	}
	r := &s.residents[idx]
	if patch.FlatNo != nil {
		r.FlatNo = *patch.FlatNo
	}
	if patch.FullName != nil {
		r.FullName = *patch.FullName
	}
	if patch.MonthlyFee != nil {
		r.MonthlyFee = *patch.MonthlyFee
	}
	if patch.PaidThisMonth != nil {
		r.PaidThisMonth = *patch.PaidThisMonth
	}
	if patch.Note != nil {
		r.Note = *patch.Note
	}
	snap := s.persistLocked(ctx, "update", id)
	s.mu.Unlock()

	s.changed(ctx, "update", id, snap)
}

// RequestRemoval starts the two-phase removal of one resident. Nothing is
// mutated until the returned token is confirmed.
func (s *LedgerService) RequestRemoval(id string) Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := ""
	if idx := s.indexOfLocked(id); idx >= 0 {
		r := s.residents[idx]
		label = r.FlatNo + " - " + r.FullName
	}
	return s.addPendingLocked(Pending{Kind: PendingRemove, ResidentID: id, Label: label})
}

// RequestClear starts the two-phase wipe of the whole roster.
func (s *LedgerService) RequestClear() Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPendingLocked(Pending{Kind: PendingClear})
}

// Confirm applies a pending destructive operation, persists, and reports
// whether the token was known. A spent or unknown token is a no-op.
// Confirming removal of an id that has meanwhile disappeared still
// persists the (unchanged) roster, mirroring the confirm-then-filter flow
// the ledger always had.
func (s *LedgerService) Confirm(ctx context.Context, token string) bool {
	s.mu.Lock()
	p, ok := s.pending[token]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.pending, token)

	switch p.Kind {
	case PendingRemove:
		kept := s.residents[:0]
		for _, r := range s.residents {
			if r.ID != p.ResidentID {
				kept = append(kept, r)
			}
		}
		s.residents = kept
	case PendingClear:
		s.residents = core.Snapshot{}
	}
	snap := s.persistLocked(ctx, string(p.Kind), p.ResidentID)
	s.mu.Unlock()

	s.changed(ctx, string(p.Kind), p.ResidentID, snap)
	return true
}

// Cancel discards a pending operation without mutating or persisting
// anything. Reports whether the token was known.
func (s *LedgerService) Cancel(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[token]; !ok {
		return false
	}
	delete(s.pending, token)
	return true
}

// Close releases the store and the notifier.
func (s *LedgerService) Close() error {
	var firstErr error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.notifier.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// persistLocked saves the roster and returns a snapshot copy for the
// post-unlock notifications. Save failures are logged and absorbed: the
// in-memory roster stays authoritative and no operation is fatal.
func (s *LedgerService) persistLocked(ctx context.Context, op, residentID string) core.Snapshot {
	snap := s.residents.Clone()
	if err := s.store.Save(ctx, snap); err != nil {
		slog.ErrorContext(ctx, "Ledger persist failed, roster kept in memory",
			"op", op, "resident_id", residentID, "error", err)
	}
	return snap
}

// changed publishes the change event and runs the re-render callbacks.
// Both happen outside the roster lock.
func (s *LedgerService) changed(ctx context.Context, op, residentID string, snap core.Snapshot) {
	if err := s.notifier.PublishLedgerChanged(ctx, op, residentID, len(snap)); err != nil {
		slog.ErrorContext(ctx, "Ledger change event not published", "op", op, "error", err)
	}
	s.mu.Lock()
	callbacks := append(([]func(core.Snapshot))(nil), s.onChange...)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn(snap.Clone())
	}
}

func (s *LedgerService) indexOfLocked(id string) int {
	for i, r := range s.residents {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// newIDLocked generates a roster-unique id: base36 millisecond timestamp
// plus a short random suffix. Collisions are next to impossible but the
// roster is checked anyway since uniqueness is load-bearing.
func (s *LedgerService) newIDLocked() string {
	for {
		id := strconv.FormatInt(time.Now().UnixMilli(), 36) + randomSuffix()
		if s.indexOfLocked(id) < 0 {
			return id
		}
	}
}

func randomSuffix() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	suffix := strconv.FormatUint(binary.BigEndian.Uint64(buf), 36)
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return suffix
}

func (s *LedgerService) addPendingLocked(p Pending) Pending {
	now := time.Now()
	for token, old := range s.pending {
		if now.Sub(old.createdAt) > pendingTTL {
			delete(s.pending, token)
		}
	}
	p.Token = newToken()
	p.createdAt = now
	s.pending[p.Token] = p
	return p
}

func newToken() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "tok_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return "tok_" + hex.EncodeToString(buf)
}
