// Package sheets defines the ports for the spreadsheet mirror: a
// read-only copy of the ledger kept in an external sheet for people who
// want their numbers outside the app.
package sheets

import (
	"context"

	"carteira/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionAppender adds one transaction row to the mirror.
	TransactionAppender interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionUpdater rewrites the row of an existing transaction.
	TransactionUpdater interface {
		Update(ctx context.Context, tx core.Transaction) error
	}

	// TransactionDeleter clears the row of a removed transaction.
	TransactionDeleter interface {
		Delete(ctx context.Context, id int64) error
	}

	// TransactionLister reports the ids currently present in the
	// mirror, so a resync can spot orphaned rows.
	TransactionLister interface {
		IDs(ctx context.Context) ([]int64, error)
	}
)

// Mirror is the full set of operations the sync worker needs.
type Mirror interface {
	TransactionAppender
	TransactionUpdater
	TransactionDeleter
	TransactionLister
}
