// Package ledger owns the in-memory transaction ledger. The Store is the
// single writer: every mutation validates, applies in memory, writes
// through to storage and only then reports completion. All other
// components work from snapshots.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"carteira/internal/core"
	"carteira/internal/storage"
)

// Mutation actions reported to the optional event publisher.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ErrNotFound is returned when a mutation targets a transaction that no
// longer exists.
var ErrNotFound = errors.New("transaction not found")

// ValidationError wraps the core validation failure for a rejected draft.
// The ledger is left untouched and nothing is persisted.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction: %v", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// Publisher receives mutation events after they are durable. Publish
// failures never fail the mutation; the store logs and moves on.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, action string, tx core.Transaction) error
}

// Store is the owning handle for one ledger.
type Store struct {
	mu     sync.Mutex
	repo   storage.Repository
	ledger core.Ledger
	rev    uint64
	lastID int64
	pub    Publisher
}

// NewStore loads the ledger from the repository. Load failures degrade
// to an in-memory seed ledger rather than aborting startup.
func NewStore(ctx context.Context, repo storage.Repository) (*Store, error) {
	l, err := repo.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Ledger load failed, operating in memory only", "error", err)
		l = core.SeedLedger()
	}

	s := &Store{repo: repo, ledger: l}
	for _, tx := range l.Transactions {
		if tx.ID > s.lastID {
			s.lastID = tx.ID
		}
	}
	return s, nil
}

// SetPublisher attaches the optional mutation event publisher.
func (s *Store) SetPublisher(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pub = p
}

// Add validates and appends a new transaction, assigning a fresh unique
// identifier. The returned error is nil, a *ValidationError (nothing
// stored), or a *storage.PersistenceError (stored in memory, save
// failed — surface as a warning, do not roll back).
func (s *Store) Add(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	tx := draft.Normalized()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, &ValidationError{Reason: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.nextID()
	s.ledger.Transactions = append(s.ledger.Transactions, tx)
	saveErr := s.writeThrough(ctx)

	s.publish(ctx, ActionCreated, tx)
	return tx, saveErr
}

// Update replaces the transaction with the given id in place. The stored
// identifier is preserved whatever the draft carries.
func (s *Store) Update(ctx context.Context, id int64, draft core.Transaction) (core.Transaction, error) {
	tx := draft.Normalized()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, &ValidationError{Reason: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.Transaction{}, ErrNotFound
	}

	tx.ID = id
	s.ledger.Transactions[idx] = tx
	saveErr := s.writeThrough(ctx)

	s.publish(ctx, ActionUpdated, tx)
	return tx, saveErr
}

// Remove deletes the transaction with the given id. A missing id is a
// no-op reported as ErrNotFound; existing entries are left untouched.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	removed := s.ledger.Transactions[idx]
	s.ledger.Transactions = append(s.ledger.Transactions[:idx], s.ledger.Transactions[idx+1:]...)
	saveErr := s.writeThrough(ctx)

	s.publish(ctx, ActionDeleted, removed)
	return saveErr
}

// All returns a snapshot of every transaction in insertion order.
func (s *Store) All() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.ledger.Transactions))
	copy(out, s.ledger.Transactions)
	return out
}

// Get returns the transaction with the given id, if present.
func (s *Store) Get(id int64) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.ledger.Transactions[idx], true
	}
	return core.Transaction{}, false
}

// Settings returns the current settings snapshot.
func (s *Store) Settings() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Settings
}

// UpdateSettings stores new settings with write-through.
func (s *Store) UpdateSettings(ctx context.Context, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Settings = settings.Normalized()
	return s.writeThrough(ctx)
}

// Snapshot returns a deep copy of the whole ledger.
func (s *Store) Snapshot() core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Revision increases on every mutation; views key caches off it.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

func (s *Store) indexOf(id int64) int {
	for i, tx := range s.ledger.Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// nextID assigns identifiers from the creation timestamp, bumped past
// the last assigned value so repeated calls within one millisecond (and
// ids carried over from storage) never collide. Callers hold s.mu.
func (s *Store) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// writeThrough persists the ledger and bumps the revision. The in-memory
// mutation is kept even when the save fails. Callers hold s.mu.
func (s *Store) writeThrough(ctx context.Context) error {
	s.rev++
	if err := s.repo.Save(ctx, s.ledger); err != nil {
		slog.WarnContext(ctx, "Ledger write-through failed, keeping in-memory state", "error", err)
		return err
	}
	return nil
}

func (s *Store) publish(ctx context.Context, action string, tx core.Transaction) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishTransactionEvent(ctx, action, tx); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", action, "id", tx.ID, "error", err)
	}
}
