// Package view shapes ledger snapshots into per-tab view models. The
// builders are pure; rendering them to markup is the HTTP layer's job.
package view

import (
	"carteira/internal/core"
)

// Tab identifiers for the three views.
const (
	TabDashboard    = "dashboard"
	TabTransactions = "transactions"
	TabSettings     = "settings"
)

// recentCount is how many transactions the dashboard lists.
const recentCount = 5

// ChartData is the two-series input the chart widget consumes: one value
// per label, income first.
type ChartData struct {
	Labels []string
	Values []float64
}

// Dashboard is the dashboard tab view model.
type Dashboard struct {
	Totals core.Totals
	Chart  ChartData
	Recent []core.Transaction
}

// Transactions is the transaction list view model for the active filter.
type Transactions struct {
	Filter core.Filter
	Rows   []core.Transaction
}

// Settings is the settings tab view model. It carries only preferences;
// the page itself is a placeholder.
type Settings struct {
	Theme    string
	UserName string
}

// NormalizeTab maps unknown tab ids to the dashboard, mirroring the
// navigation fallback of the UI.
func NormalizeTab(tab string) string {
	switch tab {
	case TabDashboard, TabTransactions, TabSettings:
		return tab
	}
	return TabDashboard
}

// BuildDashboard computes totals, the chart series and the recent list.
func BuildDashboard(l core.Ledger) Dashboard {
	totals := core.ComputeTotals(l.Transactions)
	return Dashboard{
		Totals: totals,
		Chart: ChartData{
			Labels: []string{"Receitas", "Despesas"},
			Values: []float64{totals.Income.Units(), totals.Expense.Units()},
		},
		Recent: core.Recent(l.Transactions, recentCount),
	}
}

// BuildTransactions derives the filtered, date-descending list. It is
// re-run whenever a filter control changes.
func BuildTransactions(l core.Ledger, f core.Filter) Transactions {
	return Transactions{
		Filter: f,
		Rows:   core.ApplyFilter(l.Transactions, f),
	}
}

// BuildSettings exposes the stored preferences.
func BuildSettings(l core.Ledger) Settings {
	s := l.Settings.Normalized()
	return Settings{Theme: s.Theme, UserName: s.UserName}
}
