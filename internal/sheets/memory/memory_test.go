package memory

import (
	"context"
	"testing"

	"carteira/internal/core"
)

func tx(id int64, cents int64) core.Transaction {
	return core.Transaction{
		ID:       id,
		Kind:     core.KindExpense,
		Amount:   core.Money{Cents: cents},
		Date:     core.NewDate(2025, 10, 1),
		Category: core.CategoryFood,
	}
}

func TestAppendAndUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, tx(1, 100))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q", ref)
	}

	if err := s.Update(ctx, tx(1, 250)); err != nil {
		t.Fatalf("update: %v", err)
	}
	items := s.Items()
	if len(items) != 1 || items[0].Amount.Cents != 250 {
		t.Fatalf("unexpected items: %+v", items)
	}

	// Updating an id that was never mirrored appends it.
	if err := s.Update(ctx, tx(2, 500)); err != nil {
		t.Fatalf("update new: %v", err)
	}
	if len(s.Items()) != 2 {
		t.Fatalf("expected 2 items, got %d", len(s.Items()))
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.Transaction{ID: 1}); err == nil {
		t.Fatal("expected validation failure")
	}
	if len(s.Items()) != 0 {
		t.Fatal("invalid transaction must not be stored")
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Append(ctx, tx(1, 100))
	s.Append(ctx, tx(2, 200))

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items := s.Items()
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected items after delete: %+v", items)
	}

	// Unknown id is a no-op.
	if err := s.Delete(ctx, 99); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
}

func TestIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Append(ctx, tx(3, 100))
	s.Append(ctx, tx(7, 200))

	ids, err := s.IDs(ctx)
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
