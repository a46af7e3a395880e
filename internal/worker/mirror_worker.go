// Package worker applies ledger mutation events to the spreadsheet
// mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"carteira/internal/amqp"
	"carteira/internal/ledger"
	"carteira/internal/sheets"
	"carteira/internal/storage"
)

// MirrorWorker consumes transaction events and keeps the external
// spreadsheet in step with the ledger.
type MirrorWorker struct {
	repo   storage.Repository
	mirror sheets.Mirror
}

func NewMirrorWorker(repo storage.Repository, mirror sheets.Mirror) *MirrorWorker {
	return &MirrorWorker{repo: repo, mirror: mirror}
}

// HandleEvent applies one mutation event to the mirror. Errors bubble
// up so the consumer can requeue the delivery.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"action", msg.Action,
		"id", msg.Transaction.ID)

	switch msg.Action {
	case ledger.ActionCreated:
		ref, err := w.mirror.Append(ctx, msg.Transaction)
		if err != nil {
			return fmt.Errorf("append to mirror: %w", err)
		}
		slog.InfoContext(ctx, "Mirrored new transaction", "id", msg.Transaction.ID, "row", ref)
		return nil
	case ledger.ActionUpdated:
		if err := w.mirror.Update(ctx, msg.Transaction); err != nil {
			return fmt.Errorf("update mirror: %w", err)
		}
		return nil
	case ledger.ActionDeleted:
		if err := w.mirror.Delete(ctx, msg.Transaction.ID); err != nil {
			return fmt.Errorf("delete from mirror: %w", err)
		}
		return nil
	}
	// Unknown actions are dropped, not requeued.
	slog.WarnContext(ctx, "Ignoring unknown event action", "action", msg.Action)
	return nil
}

// ResyncAll rewrites the full ledger into the mirror and removes rows
// whose transactions no longer exist. It runs at worker startup to
// recover from missed events in either direction.
func (w *MirrorWorker) ResyncAll(ctx context.Context) error {
	l, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	synced := 0
	current := make(map[int64]bool, len(l.Transactions))
	for _, tx := range l.Transactions {
		current[tx.ID] = true
		if err := w.mirror.Update(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to resync transaction", "id", tx.ID, "error", err)
			continue
		}
		synced++
	}

	mirrored, err := w.mirror.IDs(ctx)
	if err != nil {
		return fmt.Errorf("list mirror ids: %w", err)
	}
	removed := 0
	for _, id := range mirrored {
		if current[id] {
			continue
		}
		if err := w.mirror.Delete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to remove orphaned mirror row", "id", id, "error", err)
			continue
		}
		removed++
	}

	slog.InfoContext(ctx, "Mirror resync completed",
		"total", len(l.Transactions),
		"synced", synced,
		"removed", removed)
	return nil
}
