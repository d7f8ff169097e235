package engine

import (
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// Safe-to-save guard rails.
var (
	minSaveBalance    = decimal.NewFromInt(1000)
	saveBuffer        = decimal.NewFromInt(2000)
	saveRate          = decimal.RequireFromString("0.05")
	maxSaveAmount     = decimal.NewFromInt(500)
	saveBudgetPercent = decimal.NewFromInt(70)
)

// SafeToSave returns a conservative whole-unit amount that can be moved to
// savings, or zero when any guard rail trips.
func SafeToSave(txns []model.Transaction, accounts []model.Account, budget *model.Budget, now time.Time) decimal.Decimal {
	total := model.TotalBalance(accounts)
	if total.LessThan(minSaveBalance) {
		return decimal.Zero
	}

	if budget != nil && budget.Amount.IsPositive() {
		usage := budget.UsagePercent(MonthExpenses(txns, now))
		if usage.GreaterThan(saveBudgetPercent) {
			return decimal.Zero
		}
	}

	excess := total.Sub(saveBuffer)
	if !excess.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(excess.Mul(saveRate), maxSaveAmount).Floor()
}
