package engine

import (
	"testing"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

func TestSafeToSave(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		want    int64
	}{
		{"below minimum", "999", 0},
		{"inside buffer", "1500", 0},
		{"at buffer", "2000", 0},
		{"fractional floor", "2010.5", 0},
		{"small surplus", "2030", 1},
		{"5000 skims 150", "5000", 150},
		{"capped", "100000", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := []model.Account{{ID: "a", Type: model.Current, Balance: dec(t, tt.balance)}}
			got := SafeToSave(nil, accounts, nil, testNow)
			assertDecimal(t, "SafeToSave", got, decimal.NewFromInt(tt.want))
		})
	}
}

func TestSafeToSaveBudgetGuard(t *testing.T) {
	budget := &model.Budget{Amount: decimal.NewFromInt(1000)}
	accounts := accountsTotaling(5000)

	over := []model.Transaction{expenseDaysAgo(2, 701, "Food")}
	assertDecimal(t, "over 70%", SafeToSave(over, accounts, budget, testNow), decimal.Zero)

	at := []model.Transaction{expenseDaysAgo(2, 700, "Food")}
	assertDecimal(t, "at 70%", SafeToSave(at, accounts, budget, testNow), decimal.NewFromInt(150))
}

func TestMonthExpensesUsesCalendarMonth(t *testing.T) {
	txns := []model.Transaction{
		txAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 100, model.Expense, ""),
		txAt(time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), 200, model.Expense, ""),
		txAt(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 400, model.Expense, ""),
		txAt(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), 800, model.Income, ""),
	}

	assertDecimal(t, "MonthExpenses", MonthExpenses(txns, testNow), decimal.NewFromInt(100))
}
