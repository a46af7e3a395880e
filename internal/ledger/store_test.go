package ledger

import (
	"context"
	"errors"
	"testing"

	"carteira/internal/core"
	"carteira/internal/storage"
)

// memRepo is an in-memory Repository that counts saves and can be told
// to fail.
type memRepo struct {
	ledger   core.Ledger
	saves    int
	failSave bool
}

func (r *memRepo) Load(ctx context.Context) (core.Ledger, error) {
	return r.ledger.Clone(), nil
}

func (r *memRepo) Save(ctx context.Context, l core.Ledger) error {
	if r.failSave {
		return &storage.PersistenceError{Op: "save", Err: errors.New("disk full")}
	}
	r.ledger = l.Clone()
	r.saves++
	return nil
}

func newTestStore(t *testing.T) (*Store, *memRepo) {
	t.Helper()
	repo := &memRepo{ledger: core.Ledger{Settings: core.Settings{Theme: core.ThemeLight, UserName: core.DefaultUserName}}}
	s, err := NewStore(context.Background(), repo)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, repo
}

func expenseDraft() core.Transaction {
	return core.Transaction{
		Kind:     core.KindExpense,
		Amount:   core.Money{Cents: 4200},
		Date:     core.NewDate(2025, 10, 10),
		Method:   core.MethodPix,
		Category: core.CategoryFood,
	}
}

func TestAddAssignsDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		tx, err := s.Add(ctx, expenseDraft())
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if tx.ID == 0 {
			t.Fatalf("add %d: id not assigned", i)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %d", tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestAddWritesThrough(t *testing.T) {
	s, repo := newTestStore(t)
	before := repo.saves

	if _, err := s.Add(context.Background(), expenseDraft()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if repo.saves != before+1 {
		t.Fatalf("expected one save, got %d", repo.saves-before)
	}
	if len(repo.ledger.Transactions) != 1 {
		t.Fatalf("transaction not persisted, repo has %d", len(repo.ledger.Transactions))
	}
}

func TestAddRejectsInvalidDraftWithoutPersisting(t *testing.T) {
	s, repo := newTestStore(t)
	before := repo.saves

	draft := expenseDraft()
	draft.Amount = core.Money{}
	_, err := s.Add(context.Background(), draft)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected wrapped ErrInvalidAmount, got %v", err)
	}
	if repo.saves != before {
		t.Fatal("rejected draft must not trigger a persistence write")
	}
	if len(s.All()) != 0 {
		t.Fatal("rejected draft must not enter the ledger")
	}
}

func TestAddKeepsMutationWhenSaveFails(t *testing.T) {
	s, repo := newTestStore(t)
	repo.failSave = true

	tx, err := s.Add(context.Background(), expenseDraft())
	var perr *storage.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if _, ok := s.Get(tx.ID); !ok {
		t.Fatal("in-memory mutation must survive a failed save")
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	stored, _ := s.Add(ctx, expenseDraft())

	draft := stored
	draft.Kind = core.KindIncome
	draft.Amount = core.Money{Cents: 999}
	draft.Category = core.CategoryOther // must be cleared for income
	got, err := s.Update(ctx, stored.ID, draft)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != stored.ID {
		t.Fatalf("id changed on update: %d -> %d", stored.ID, got.ID)
	}
	if got.Category != "" {
		t.Fatalf("category must be cleared for income, got %q", got.Category)
	}

	all := s.All()
	count := 0
	for _, tx := range all {
		if tx.ID == stored.ID {
			count++
			if tx.Amount.Cents != 999 {
				t.Fatalf("update not applied, amount %d", tx.Amount.Cents)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one transaction with id %d, found %d", stored.ID, count)
	}
}

func TestUpdateMissingID(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Update(context.Background(), 12345, expenseDraft())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateIncomeToExpenseRequiresCategory(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	income := core.Transaction{Kind: core.KindIncome, Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 10, 1)}
	stored, err := s.Add(ctx, income)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	draft := stored
	draft.Kind = core.KindExpense
	draft.Category = ""
	if _, err := s.Update(ctx, stored.ID, draft); !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	draft.Category = core.CategoryTransport
	if _, err := s.Update(ctx, stored.ID, draft); err != nil {
		t.Fatalf("update with category should pass, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Add(ctx, expenseDraft())
	b, _ := s.Add(ctx, expenseDraft())

	if err := s.Remove(ctx, a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.Get(a.ID); ok {
		t.Fatal("removed transaction still present")
	}
	if _, ok := s.Get(b.ID); !ok {
		t.Fatal("unrelated transaction vanished")
	}

	// Removing a missing id is a no-op that reports ErrNotFound.
	if err := s.Remove(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(s.All()) != 1 {
		t.Fatal("no-op remove altered the ledger")
	}
}

func TestRevisionBumpsOnMutation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	r0 := s.Revision()
	tx, _ := s.Add(ctx, expenseDraft())
	if s.Revision() == r0 {
		t.Fatal("revision must change after add")
	}
	r1 := s.Revision()
	_ = s.Remove(ctx, tx.ID)
	if s.Revision() == r1 {
		t.Fatal("revision must change after remove")
	}
}

func TestUpdateSettings(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	if err := s.UpdateSettings(ctx, core.Settings{Theme: core.ThemeDark, UserName: "Ana"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if got := s.Settings(); got.Theme != core.ThemeDark || got.UserName != "Ana" {
		t.Fatalf("settings not applied: %+v", got)
	}
	if repo.ledger.Settings.Theme != core.ThemeDark {
		t.Fatal("settings not written through")
	}
}

type recordingPublisher struct {
	actions []string
	fail    bool
}

func (p *recordingPublisher) PublishTransactionEvent(ctx context.Context, action string, tx core.Transaction) error {
	p.actions = append(p.actions, action)
	if p.fail {
		return errors.New("broker down")
	}
	return nil
}

func TestMutationsPublishEvents(t *testing.T) {
	s, _ := newTestStore(t)
	pub := &recordingPublisher{}
	s.SetPublisher(pub)
	ctx := context.Background()

	tx, _ := s.Add(ctx, expenseDraft())
	_, _ = s.Update(ctx, tx.ID, tx)
	_ = s.Remove(ctx, tx.ID)

	want := []string{ActionCreated, ActionUpdated, ActionDeleted}
	if len(pub.actions) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), pub.actions)
	}
	for i, a := range want {
		if pub.actions[i] != a {
			t.Fatalf("event %d: got %q, want %q", i, pub.actions[i], a)
		}
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetPublisher(&recordingPublisher{fail: true})

	if _, err := s.Add(context.Background(), expenseDraft()); err != nil {
		t.Fatalf("publish failure must not fail the mutation, got %v", err)
	}
}
