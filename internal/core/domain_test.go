package core

import (
	"errors"
	"testing"
)

func validDraft() Transaction {
	return Transaction{
		Kind:     KindExpense,
		Amount:   Money{Cents: 1250},
		Date:     NewDate(2025, 10, 2),
		Method:   MethodCard,
		Category: CategoryFood,
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validDraft().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"missing amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -100 }, ErrInvalidAmount},
		{"missing date", func(tx *Transaction) { tx.Date = Date{} }, ErrMissingDate},
		{"unknown kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"expense without category", func(tx *Transaction) { tx.Category = "" }, ErrInvalidCategory},
		{"category outside closed set", func(tx *Transaction) { tx.Category = "pets" }, ErrInvalidCategory},
		{"unknown method", func(tx *Transaction) { tx.Method = "cheque" }, ErrInvalidMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validDraft()
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIncomeNeedsNoCategory(t *testing.T) {
	tx := validDraft()
	tx.Kind = KindIncome
	tx.Category = ""
	if err := tx.Validate(); err != nil {
		t.Fatalf("income without category should validate, got %v", err)
	}
}

func TestNormalizedClearsCategoryForIncome(t *testing.T) {
	tx := validDraft()
	tx.Kind = KindIncome
	// Caller supplied a category anyway; it must be discarded.
	tx.Category = CategoryOther
	got := tx.Normalized()
	if got.Category != "" {
		t.Fatalf("expected empty category, got %q", got.Category)
	}

	exp := validDraft().Normalized()
	if exp.Category != CategoryFood {
		t.Fatalf("expense category must survive normalization, got %q", exp.Category)
	}
}

func TestNormalizedDefaultsMethod(t *testing.T) {
	tx := validDraft()
	tx.Method = ""
	if got := tx.Normalized(); got.Method != MethodCash {
		t.Fatalf("expected cash fallback, got %q", got.Method)
	}
}

func TestSettingsNormalized(t *testing.T) {
	s := Settings{Theme: "sepia", UserName: ""}.Normalized()
	if s.Theme != ThemeLight {
		t.Fatalf("expected light theme fallback, got %q", s.Theme)
	}
	if s.UserName != DefaultUserName {
		t.Fatalf("expected default user name, got %q", s.UserName)
	}

	dark := Settings{Theme: ThemeDark, UserName: "Ana"}.Normalized()
	if dark.Theme != ThemeDark || dark.UserName != "Ana" {
		t.Fatalf("valid settings must pass through unchanged, got %+v", dark)
	}
}

func TestLedgerCloneIsIndependent(t *testing.T) {
	l := SeedLedger()
	c := l.Clone()
	c.Transactions[0].Amount.Cents = 1
	if l.Transactions[0].Amount.Cents == 1 {
		t.Fatal("clone must not share backing storage with the original")
	}
}

func TestSeedLedger(t *testing.T) {
	l := SeedLedger()
	if len(l.Transactions) != 4 {
		t.Fatalf("expected 4 seed transactions, got %d", len(l.Transactions))
	}
	for i, tx := range l.Transactions {
		if err := tx.Validate(); err != nil {
			t.Fatalf("seed transaction %d invalid: %v", i, err)
		}
	}
	if l.Settings.Theme != ThemeLight || l.Settings.UserName != DefaultUserName {
		t.Fatalf("unexpected seed settings: %+v", l.Settings)
	}
}
