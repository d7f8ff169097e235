package engine

import (
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// HistoricalBalance reconstructs the balance for each of the last days days,
// oldest first. The point for offset -i undoes every transaction dated after
// now minus i days. Each point is computed independently from current, so
// the offset 0 point always equals current. Transactions dated after now are
// ignored. Negative balances are reported as-is.
func HistoricalBalance(txns []model.Transaction, current decimal.Decimal, days int, now time.Time) []model.BalancePoint {
	if days < 0 {
		days = 0
	}

	points := make([]model.BalancePoint, days+1)
	for i := 0; i <= days; i++ {
		cutoff := now.AddDate(0, 0, -i)
		points[days-i] = model.BalancePoint{
			Date:      startOfDay(cutoff),
			Balance:   balanceAt(txns, current, cutoff, now),
			DayOffset: -i,
		}
	}
	return points
}

// balanceAt returns what the balance must have been at cutoff given the
// balance at now.
func balanceAt(txns []model.Transaction, current decimal.Decimal, cutoff, now time.Time) decimal.Decimal {
	balance := current
	for _, t := range txns {
		if !t.Date.After(cutoff) || t.Date.After(now) {
			continue
		}
		if t.IsIncome() {
			balance = balance.Sub(t.Amount)
		} else {
			balance = balance.Add(t.Amount)
		}
	}
	return balance
}
