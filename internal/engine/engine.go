// Package engine implements the pure analytics and advisory computations over
// a user's ledger. Every function takes its reference instant as an argument
// and never reads the wall clock.
package engine

import (
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes amounts in engine-generated messages.
const CurrencySymbol = "₹"

var (
	hundred = decimal.NewFromInt(100)
	thirty  = decimal.NewFromInt(30)
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// inWindow reports whether t lies in [since, until].
func inWindow(t, since, until time.Time) bool {
	return !t.Before(since) && !t.After(until)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// MonthExpenses sums EXPENSE amounts dated in the calendar month of now.
func MonthExpenses(txns []model.Transaction, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.IsExpense() && sameMonth(t.Date.In(now.Location()), now) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

func expenses(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.IsExpense() {
			out = append(out, t)
		}
	}
	return out
}

func sumAmounts(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

func mean(txns []model.Transaction) decimal.Decimal {
	if len(txns) == 0 {
		return decimal.Zero
	}
	return sumAmounts(txns).Div(decimal.NewFromInt(int64(len(txns))))
}
