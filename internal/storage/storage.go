// Package storage persists the ledger. The file store keeps the whole
// ledger as one JSON blob; the sqlite store offers the same contract on
// top of a local database. Both overwrite the full ledger on save, there
// is no partial write and no schema migration of older blob shapes.
package storage

import (
	"context"
	"fmt"

	"carteira/internal/core"
)

// Repository is the persistence contract the ledger store writes through.
type Repository interface {
	// Load reads the stored ledger. A missing or unreadable ledger is
	// replaced by the seed, which is persisted immediately; Load fails
	// closed and never surfaces a deserialization error.
	Load(ctx context.Context) (core.Ledger, error)
	// Save overwrites the stored ledger with the given one.
	Save(ctx context.Context, l core.Ledger) error
}

// PersistenceError marks storage read/write failures. Mutations already
// applied in memory survive a failed save; callers log and warn instead
// of rolling back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
