// Package pipeline imports ledgers into the store, loads per-user snapshots
// and aggregates ledger activity by period and category.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// Aggregate computes summary statistics for transactions within [since, until).
func Aggregate(txns []model.Transaction, since, until time.Time) model.SummaryStats {
	filtered := FilterByTime(txns, since, until)

	stats := model.SummaryStats{
		IncomeTotal:    decimal.Zero,
		ExpenseTotal:   decimal.Zero,
		LargestExpense: decimal.Zero,
	}
	activeDays := make(map[string]struct{})

	for _, t := range filtered {
		stats.Transactions++
		switch t.Type {
		case model.Income:
			stats.Incomes++
			stats.IncomeTotal = stats.IncomeTotal.Add(t.Amount)
		case model.Expense:
			stats.Expenses++
			stats.ExpenseTotal = stats.ExpenseTotal.Add(t.Amount)
			if t.Amount.GreaterThan(stats.LargestExpense) {
				stats.LargestExpense = t.Amount
			}
		}
		activeDays[t.Date.Local().Format("2006-01-02")] = struct{}{}
	}

	stats.ActiveDays = len(activeDays)
	stats.Net = stats.IncomeTotal.Sub(stats.ExpenseTotal)

	// Per-day rates use the calendar span so quiet days count.
	days := spanDays(since, until)
	if days > 0 {
		d := decimal.NewFromInt(int64(days))
		stats.IncomePerDay = stats.IncomeTotal.Div(d)
		stats.ExpensePerDay = stats.ExpenseTotal.Div(d)
	}
	if stats.Expenses > 0 {
		stats.AvgExpense = stats.ExpenseTotal.Div(decimal.NewFromInt(int64(stats.Expenses)))
	}

	return stats
}

func spanDays(since, until time.Time) int {
	if since.IsZero() || until.IsZero() || !until.After(since) {
		return 0
	}
	return int((until.Sub(since) + 24*time.Hour - 1) / (24 * time.Hour))
}

// AggregateDays computes per-day activity, most recent first. Every day in
// the range is present so charts show gaps as zeros.
func AggregateDays(txns []model.Transaction, since, until time.Time) []model.DailyStats {
	filtered := FilterByTime(txns, since, until)

	dayMap := make(map[string]*model.DailyStats)
	get := func(day time.Time) *model.DailyStats {
		key := day.Format("2006-01-02")
		ds, ok := dayMap[key]
		if !ok {
			t, _ := time.ParseInLocation("2006-01-02", key, time.Local)
			ds = &model.DailyStats{Date: t, Income: decimal.Zero, Expense: decimal.Zero}
			dayMap[key] = ds
		}
		return ds
	}

	for _, t := range filtered {
		ds := get(t.Date.Local())
		ds.Transactions++
		if t.IsIncome() {
			ds.Income = ds.Income.Add(t.Amount)
		} else {
			ds.Expense = ds.Expense.Add(t.Amount)
		}
	}

	if !since.IsZero() && !until.IsZero() {
		day := since.Local()
		last := until.Local().Add(-time.Nanosecond)
		for !day.After(last) {
			get(day)
			day = day.AddDate(0, 0, 1)
		}
	}

	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		ds.Net = ds.Income.Sub(ds.Expense)
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})

	return days
}

// AggregateMonths computes per-calendar-month activity, oldest first.
func AggregateMonths(txns []model.Transaction, since, until time.Time) []model.MonthlyStats {
	filtered := FilterByTime(txns, since, until)

	monthMap := make(map[time.Time]*model.MonthlyStats)
	for _, t := range filtered {
		local := t.Date.Local()
		key := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local)
		ms, ok := monthMap[key]
		if !ok {
			ms = &model.MonthlyStats{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			monthMap[key] = ms
		}
		if t.IsIncome() {
			ms.Income = ms.Income.Add(t.Amount)
		} else {
			ms.Expense = ms.Expense.Add(t.Amount)
		}
	}

	months := make([]model.MonthlyStats, 0, len(monthMap))
	for _, ms := range monthMap {
		ms.Net = ms.Income.Sub(ms.Expense)
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	return months
}

// AggregateCategories computes per-category expense for [since, until),
// sorted by expense descending. Trend compares against the preceding period
// of equal length.
func AggregateCategories(txns []model.Transaction, since, until time.Time) []model.CategoryStats {
	current := categoryTotals(FilterByTime(txns, since, until))

	var previous map[string]*model.CategoryStats
	if !since.IsZero() && !until.IsZero() {
		previous = categoryTotals(FilterByTime(txns, since.Add(-until.Sub(since)), since))
	}

	total := decimal.Zero
	for _, cs := range current {
		total = total.Add(cs.Expense)
	}

	cats := make([]model.CategoryStats, 0, len(current))
	for name, cs := range current {
		if total.IsPositive() {
			cs.SharePercent = cs.Expense.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		if prev, ok := previous[name]; ok {
			cs.TrendDirection = cs.Expense.Cmp(prev.Expense)
		} else if previous != nil {
			cs.TrendDirection = 1
		}
		cats = append(cats, *cs)
	}
	sort.Slice(cats, func(i, j int) bool {
		if c := cats[i].Expense.Cmp(cats[j].Expense); c != 0 {
			return c > 0
		}
		return cats[i].Category < cats[j].Category
	})

	return cats
}

// Uncategorized labels expenses without a category.
const Uncategorized = "Uncategorized"

func categoryTotals(txns []model.Transaction) map[string]*model.CategoryStats {
	out := make(map[string]*model.CategoryStats)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		name := t.CategoryName()
		if name == "" {
			name = Uncategorized
		}
		cs, ok := out[name]
		if !ok {
			cs = &model.CategoryStats{Category: name, Expense: decimal.Zero}
			out[name] = cs
		}
		cs.Transactions++
		cs.Expense = cs.Expense.Add(t.Amount)
	}
	return out
}

// FilterByTime returns transactions dated within [since, until). Zero bounds
// are open.
func FilterByTime(txns []model.Transaction, since, until time.Time) []model.Transaction {
	if since.IsZero() && until.IsZero() {
		return txns
	}

	var result []model.Transaction
	for _, t := range txns {
		if !since.IsZero() && t.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !t.Date.Before(until) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// FilterByCategory returns transactions whose category contains the
// substring, ignoring case.
func FilterByCategory(txns []model.Transaction, category string) []model.Transaction {
	if category == "" {
		return txns
	}
	var result []model.Transaction
	for _, t := range txns {
		if containsIgnoreCase(t.CategoryName(), category) {
			result = append(result, t)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
