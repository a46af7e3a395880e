package core

import (
	"sort"
	"strings"
)

// Totals is the aggregate summary shown on the dashboard.
type Totals struct {
	Income  Money
	Expense Money
	Balance Money
}

// ComputeTotals sums income and expense amounts over the given
// transactions. Order does not matter and the empty slice yields zeroes.
func ComputeTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			t.Income.Cents += tx.Amount.Cents
		case KindExpense:
			t.Expense.Cents += tx.Amount.Cents
		}
	}
	t.Balance.Cents = t.Income.Cents - t.Expense.Cents
	return t
}

// SortByDateDesc returns a copy sorted newest first. Transactions on the
// same day keep their original relative order.
func SortByDateDesc(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Recent returns the n most recent transactions, newest first.
func Recent(txs []Transaction, n int) []Transaction {
	out := SortByDateDesc(txs)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Filter selects transactions for the list view. Empty fields match
// everything.
type Filter struct {
	// Text is matched case-insensitively as a substring of the category
	// or the payment method.
	Text string
	// Date, when set, must match the transaction day exactly.
	Date Date
	// Kind, when set, must match exactly.
	Kind Kind
}

// Empty reports whether no filter field is set.
func (f Filter) Empty() bool {
	return f.Text == "" && f.Date.IsZero() && f.Kind == ""
}

// Matches reports whether a single transaction passes the filter.
func (f Filter) Matches(tx Transaction) bool {
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		inCategory := strings.Contains(strings.ToLower(string(tx.Category)), needle)
		inMethod := strings.Contains(strings.ToLower(string(tx.Method)), needle)
		if !inCategory && !inMethod {
			return false
		}
	}
	if !f.Date.IsZero() && !f.Date.Equal(tx.Date) {
		return false
	}
	if f.Kind != "" && f.Kind != tx.Kind {
		return false
	}
	return true
}

// ApplyFilter returns the matching transactions sorted newest first.
func ApplyFilter(txs []Transaction, f Filter) []Transaction {
	matched := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Matches(tx) {
			matched = append(matched, tx)
		}
	}
	return SortByDateDesc(matched)
}
