// Package session drives the create/edit form lifecycle: open a draft,
// validate on submit, commit through the ledger store, close. Delete is
// a session-less command on the same surface.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"carteira/internal/core"
	"carteira/internal/ledger"
	"carteira/internal/storage"
)

// Notifier is the toast service: transient user feedback after a
// mutation succeeds or fails validation.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// User-facing messages, matching the tone of the original UI.
const (
	msgSaved         = "Transação salva com sucesso!"
	msgDeleted       = "Transação excluída com sucesso!"
	msgMissingFields = "Por favor, preencha todos os campos."
	msgBadCategory   = "Escolha uma categoria válida para a despesa."
	msgVanished      = "Transação não encontrada; talvez já tenha sido removida."
	msgSaveWarning   = "Alteração aplicada, mas não foi possível gravar no armazenamento."
)

// Controller manages one edit session at a time.
//
// States: Closed -> Open(draft) -> Validating -> Committed(Closed) or
// Rejected(Open). Mutation is strictly sequential, the mutex only guards
// against misuse.
type Controller struct {
	mu       sync.Mutex
	store    *ledger.Store
	notifier Notifier

	open    bool
	editing bool
	editID  int64
	draft   core.Transaction
}

func NewController(store *ledger.Store, notifier Notifier) *Controller {
	return &Controller{store: store, notifier: notifier}
}

// Open starts a session. With id zero the draft is a new expense dated
// today; otherwise the existing transaction is loaded. A vanished id
// falls back silently to a fresh draft.
func (c *Controller) Open(id int64) core.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = true
	c.editing = false
	c.editID = 0
	c.draft = newDraft()

	if id != 0 {
		if existing, ok := c.store.Get(id); ok {
			c.draft = existing
			c.editing = true
			c.editID = id
		} else {
			slog.Warn("Edit target vanished, opening empty draft", "id", id)
		}
	}
	return c.draft
}

// IsOpen reports whether a session is active.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// IsEditing reports whether the open session targets an existing
// transaction.
func (c *Controller) IsEditing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Draft returns the current draft.
func (c *Controller) Draft() core.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Close abandons the session without committing.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Submit validates and commits the draft. On validation failure the
// session stays open and the failure is shown; on success the session
// closes and a success toast is emitted. A failed persistence write
// warns but does not undo the mutation.
func (c *Controller) Submit(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	c.mu.Lock()
	editing, editID := c.editing, c.editID
	c.draft = draft
	c.mu.Unlock()

	var (
		stored core.Transaction
		err    error
	)
	if editing {
		stored, err = c.store.Update(ctx, editID, draft)
	} else {
		stored, err = c.store.Add(ctx, draft)
	}

	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		// Rejected: stay open so the user can fix the draft.
		c.notifier.Error(validationMessage(verr))
		return core.Transaction{}, err
	case errors.Is(err, ledger.ErrNotFound):
		// The edit target vanished under us; nothing to commit.
		c.notifier.Error(msgVanished)
		c.mu.Lock()
		c.reset()
		c.mu.Unlock()
		return core.Transaction{}, err
	}

	var perr *storage.PersistenceError
	if errors.As(err, &perr) {
		c.notifier.Error(msgSaveWarning)
	}

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	c.notifier.Success(msgSaved)
	return stored, nil
}

// Delete removes a transaction outside of any session. Intent
// confirmation is the caller's concern. A missing id is a no-op with a
// notification.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	err := c.store.Remove(ctx, id)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.notifier.Error(msgVanished)
		return err
	case err != nil:
		var perr *storage.PersistenceError
		if errors.As(err, &perr) {
			c.notifier.Error(msgSaveWarning)
			c.notifier.Success(msgDeleted)
			return nil
		}
		return err
	}
	c.notifier.Success(msgDeleted)
	return nil
}

func (c *Controller) reset() {
	c.open = false
	c.editing = false
	c.editID = 0
	c.draft = core.Transaction{}
}

func newDraft() core.Transaction {
	return core.Transaction{
		Kind: core.KindExpense,
		Date: core.Today(),
	}
}

func validationMessage(err *ledger.ValidationError) string {
	if errors.Is(err, core.ErrInvalidCategory) {
		return msgBadCategory
	}
	return msgMissingFields
}
