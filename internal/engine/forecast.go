package engine

import (
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// ForecastWindowDays is the trailing window the forecaster averages over.
// Averages always divide by the full window, not by active days.
const ForecastWindowDays = 30

// WindowTotals sums INCOME and EXPENSE amounts dated in the trailing
// forecast window [now-30d, now].
func WindowTotals(txns []model.Transaction, now time.Time) (income, expense decimal.Decimal) {
	since := now.AddDate(0, 0, -ForecastWindowDays)
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range txns {
		if !inWindow(t.Date, since, now) {
			continue
		}
		switch t.Type {
		case model.Income:
			income = income.Add(t.Amount)
		case model.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}

// DailyNet returns the average daily net cash flow over the trailing window.
func DailyNet(txns []model.Transaction, now time.Time) decimal.Decimal {
	income, expense := WindowTotals(txns, now)
	return income.Sub(expense).Div(thirty)
}

// ForecastCashFlow projects the total account balance linearly for days
// days ahead. The offset 0 point is the current total balance.
func ForecastCashFlow(txns []model.Transaction, accounts []model.Account, days int, now time.Time) []model.ForecastPoint {
	if days < 0 {
		days = 0
	}

	total := model.TotalBalance(accounts)
	income, expense := WindowTotals(txns, now)
	windowNet := income.Sub(expense)

	points := make([]model.ForecastPoint, 0, days+1)
	for i := 0; i <= days; i++ {
		predicted := total
		if i > 0 && !windowNet.IsZero() {
			predicted = total.Add(windowNet.Mul(decimal.NewFromInt(int64(i))).Div(thirty))
		}
		points = append(points, model.ForecastPoint{
			Date:      startOfDay(now.AddDate(0, 0, i)),
			Predicted: predicted,
			DayOffset: i,
		})
	}
	return points
}
