package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

func tx(day int, amount int64, typ model.TxType, category string) model.Transaction {
	return model.Transaction{
		ID:       fmt.Sprintf("t-%d-%d-%s", day, amount, typ),
		Date:     time.Date(2026, 3, day, 12, 0, 0, 0, time.Local),
		Amount:   decimal.NewFromInt(amount),
		Type:     typ,
		Category: model.StringPtr(category),
	}
}

func march(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.Local)
}

func TestAggregate(t *testing.T) {
	txns := []model.Transaction{
		tx(1, 50000, model.Income, "Salary"),
		tx(2, 400, model.Expense, "Food"),
		tx(2, 1600, model.Expense, "Shopping"),
		tx(5, 1000, model.Expense, "Food"),
		tx(20, 9999, model.Expense, "Outside"),
	}

	stats := Aggregate(txns, march(1), march(11))

	if stats.Transactions != 4 {
		t.Fatalf("Transactions = %d, want 4", stats.Transactions)
	}
	if stats.Incomes != 1 || stats.Expenses != 3 {
		t.Fatalf("Incomes/Expenses = %d/%d, want 1/3", stats.Incomes, stats.Expenses)
	}
	if stats.ActiveDays != 3 {
		t.Errorf("ActiveDays = %d, want 3", stats.ActiveDays)
	}
	if !stats.ExpenseTotal.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("ExpenseTotal = %s, want 3000", stats.ExpenseTotal)
	}
	if !stats.Net.Equal(decimal.NewFromInt(47000)) {
		t.Errorf("Net = %s, want 47000", stats.Net)
	}
	if !stats.ExpensePerDay.Equal(decimal.NewFromInt(300)) {
		t.Errorf("ExpensePerDay = %s, want 300", stats.ExpensePerDay)
	}
	if !stats.AvgExpense.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("AvgExpense = %s, want 1000", stats.AvgExpense)
	}
	if !stats.LargestExpense.Equal(decimal.NewFromInt(1600)) {
		t.Errorf("LargestExpense = %s, want 1600", stats.LargestExpense)
	}
}

func TestAggregateDaysFillsGaps(t *testing.T) {
	txns := []model.Transaction{
		tx(1, 100, model.Expense, "Food"),
		tx(3, 500, model.Income, ""),
	}

	days := AggregateDays(txns, march(1), march(4))
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}
	if !days[0].Date.Equal(march(3)) {
		t.Errorf("days[0].Date = %v, want %v", days[0].Date, march(3))
	}
	if !days[1].Net.IsZero() || days[1].Transactions != 0 {
		t.Errorf("gap day = %+v, want zero activity", days[1])
	}
	if !days[2].Net.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("days[2].Net = %s, want -100", days[2].Net)
	}
}

func TestAggregateMonths(t *testing.T) {
	txns := []model.Transaction{
		tx(3, 200, model.Expense, "Food"),
		{
			ID:     "feb",
			Date:   time.Date(2026, 2, 10, 9, 0, 0, 0, time.Local),
			Amount: decimal.NewFromInt(900),
			Type:   model.Income,
		},
	}

	months := AggregateMonths(txns, time.Time{}, time.Time{})
	if len(months) != 2 {
		t.Fatalf("len(months) = %d, want 2", len(months))
	}
	if months[0].Month.Month() != time.February {
		t.Errorf("months[0] = %v, want February", months[0].Month)
	}
	if !months[1].Net.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("March Net = %s, want -200", months[1].Net)
	}
}

func TestAggregateCategories(t *testing.T) {
	txns := []model.Transaction{
		// previous period [Feb 25, Mar 5)
		{ID: "old", Date: time.Date(2026, 2, 27, 9, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(5000), Type: model.Expense, Category: model.StringPtr("Food")},
		tx(6, 1000, model.Expense, "Food"),
		tx(7, 3000, model.Expense, "Travel"),
		tx(8, 750, model.Income, "Salary"),
		tx(9, 0, model.Expense, ""),
	}

	cats := AggregateCategories(txns, march(5), march(13))
	if len(cats) != 3 {
		t.Fatalf("len(cats) = %d, want 3", len(cats))
	}
	if cats[0].Category != "Travel" || cats[1].Category != "Food" || cats[2].Category != Uncategorized {
		t.Fatalf("order = %s,%s,%s", cats[0].Category, cats[1].Category, cats[2].Category)
	}
	if cats[0].SharePercent != 75 {
		t.Errorf("Travel share = %v, want 75", cats[0].SharePercent)
	}
	if cats[0].TrendDirection != 1 {
		t.Errorf("Travel trend = %d, want 1", cats[0].TrendDirection)
	}
	if cats[1].TrendDirection != -1 {
		t.Errorf("Food trend = %d, want -1", cats[1].TrendDirection)
	}
}

func TestFilterByCategory(t *testing.T) {
	txns := []model.Transaction{
		tx(1, 10, model.Expense, "Food & Dining"),
		tx(1, 20, model.Expense, "Travel"),
		tx(1, 30, model.Expense, ""),
	}
	got := FilterByCategory(txns, "food")
	if len(got) != 1 || got[0].CategoryName() != "Food & Dining" {
		t.Fatalf("FilterByCategory = %+v", got)
	}
	if len(FilterByCategory(txns, "")) != 3 {
		t.Error("empty filter should return all transactions")
	}
}

func TestFilterByTimeHalfOpen(t *testing.T) {
	txns := []model.Transaction{
		{ID: "a", Date: march(1)},
		{ID: "b", Date: march(2)},
	}
	got := FilterByTime(txns, march(1), march(2))
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("FilterByTime = %+v, want only a", got)
	}
}

func BenchmarkAggregate(b *testing.B) {
	txns := make([]model.Transaction, 0, 10000)
	for i := 0; i < cap(txns); i++ {
		typ := model.Expense
		if i%10 == 0 {
			typ = model.Income
		}
		txns = append(txns, tx(1+i%28, int64(100+i%900), typ, fmt.Sprintf("cat-%d", i%12)))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Aggregate(txns, march(1), march(29))
		_ = AggregateCategories(txns, march(15), march(29))
	}
}
