package view

import (
	"testing"

	"carteira/internal/core"
)

func TestBuildDashboard(t *testing.T) {
	l := core.SeedLedger()
	d := BuildDashboard(l)

	if d.Totals.Income.Cents != 170000 || d.Totals.Expense.Cents != 7500 {
		t.Fatalf("unexpected totals: %+v", d.Totals)
	}
	if d.Totals.Balance.Cents != 162500 {
		t.Fatalf("unexpected balance: %d", d.Totals.Balance.Cents)
	}

	if len(d.Chart.Values) != 2 || len(d.Chart.Labels) != 2 {
		t.Fatalf("chart must carry exactly two series, got %+v", d.Chart)
	}
	if d.Chart.Values[0] != 1700 || d.Chart.Values[1] != 75 {
		t.Fatalf("chart values wrong: %v", d.Chart.Values)
	}

	if len(d.Recent) != 4 {
		t.Fatalf("expected all 4 seed transactions, got %d", len(d.Recent))
	}
	if d.Recent[0].ID != 4 {
		t.Fatalf("recent must be newest first, got id %d", d.Recent[0].ID)
	}
}

func TestBuildDashboardEmptyLedger(t *testing.T) {
	d := BuildDashboard(core.Ledger{})
	if d.Totals.Income.Cents != 0 || d.Totals.Expense.Cents != 0 || d.Totals.Balance.Cents != 0 {
		t.Fatalf("empty ledger must yield zero totals: %+v", d.Totals)
	}
	if len(d.Recent) != 0 {
		t.Fatalf("empty ledger has no recent rows, got %d", len(d.Recent))
	}
}

func TestBuildDashboardLimitsRecentToFive(t *testing.T) {
	var l core.Ledger
	for i := 1; i <= 8; i++ {
		l.Transactions = append(l.Transactions, core.Transaction{
			ID:     int64(i),
			Kind:   core.KindIncome,
			Amount: core.Money{Cents: 100},
			Date:   core.NewDate(2025, 10, i),
		})
	}
	d := BuildDashboard(l)
	if len(d.Recent) != 5 {
		t.Fatalf("expected 5 recent rows, got %d", len(d.Recent))
	}
	if d.Recent[0].ID != 8 {
		t.Fatalf("expected newest (id 8) first, got %d", d.Recent[0].ID)
	}
}

func TestBuildTransactionsAppliesFilter(t *testing.T) {
	l := core.SeedLedger()
	got := BuildTransactions(l, core.Filter{Kind: core.KindIncome})
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 income rows, got %d", len(got.Rows))
	}
	for _, r := range got.Rows {
		if r.Kind != core.KindIncome {
			t.Fatalf("row %d has kind %q", r.ID, r.Kind)
		}
	}
}

func TestNormalizeTab(t *testing.T) {
	cases := map[string]string{
		"dashboard":    TabDashboard,
		"transactions": TabTransactions,
		"settings":     TabSettings,
		"bogus":        TabDashboard,
		"":             TabDashboard,
	}
	for in, want := range cases {
		if got := NormalizeTab(in); got != want {
			t.Fatalf("NormalizeTab(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildSettings(t *testing.T) {
	got := BuildSettings(core.Ledger{Settings: core.Settings{Theme: core.ThemeDark, UserName: "Ana"}})
	if got.Theme != core.ThemeDark || got.UserName != "Ana" {
		t.Fatalf("unexpected settings view: %+v", got)
	}

	// Zero settings pick up defaults.
	def := BuildSettings(core.Ledger{})
	if def.Theme != core.ThemeLight || def.UserName != core.DefaultUserName {
		t.Fatalf("defaults not applied: %+v", def)
	}
}
