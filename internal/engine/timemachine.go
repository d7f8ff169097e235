package engine

import (
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

const monthDuration = 30 * 24 * time.Hour

// MonthsPassed counts whole 30-day months between start and now. A start in
// the future yields 0.
func MonthsPassed(start, now time.Time) int {
	if !now.After(start) {
		return 0
	}
	return int(now.Sub(start) / monthDuration)
}

// DefaultScenarioStart is the start date used when a request omits one.
func DefaultScenarioStart(now time.Time) time.Time {
	return now.AddDate(0, -3, 0)
}

// SimulateTimeline compares the current balances with the balances the user
// would have under the scenario. Unknown scenario kinds leave balances
// unchanged and produce a generic message.
func SimulateTimeline(txns []model.Transaction, accounts []model.Account, sc model.Scenario, now time.Time) model.Timeline {
	current := model.BalanceState{
		Balance: model.TotalBalance(accounts),
		Savings: model.SavingsBalance(accounts),
	}
	months := MonthsPassed(sc.StartDate, now)

	saved, avoided := decimal.Zero, decimal.Zero
	switch sc.Kind {
	case model.SaveMonthly:
		saved = sc.Amount.Mul(decimal.NewFromInt(int64(months)))
	case model.AvoidCategory:
		avoided = expensesSince(txns, sc.StartDate, sc.Category, true)
	case model.ReduceSpending:
		saved = expensesSince(txns, sc.StartDate, "", false).Mul(sc.Amount).Div(hundred)
	}

	alternate := model.BalanceState{
		Balance: current.Balance.Add(saved).Add(avoided),
		Savings: current.Savings.Add(saved),
	}
	diff := alternate.Balance.Sub(current.Balance)

	return model.Timeline{
		Current:   current,
		Alternate: alternate,
		Impact: model.Impact{
			Difference:      diff,
			PercentageGain:  percentageGain(diff, current.Balance),
			SavedAmount:     saved,
			AvoidedExpenses: avoided,
			MonthsPassed:    months,
		},
		Message: timelineMessage(sc, diff, months),
	}
}

// expensesSince sums EXPENSE amounts dated on or after start, optionally
// restricted to one category.
func expensesSince(txns []model.Transaction, start time.Time, category string, byCategory bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if !t.IsExpense() || t.Date.Before(start) {
			continue
		}
		if byCategory && t.CategoryName() != category {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// percentageGain formats diff as a percentage of base with one decimal.
// A zero base reports "0.0".
func percentageGain(diff, base decimal.Decimal) string {
	if base.IsZero() {
		return "0.0"
	}
	return diff.Mul(hundred).Div(base).StringFixed(1)
}

func timelineMessage(sc model.Scenario, diff decimal.Decimal, months int) string {
	switch sc.Kind {
	case model.SaveMonthly:
		return fmt.Sprintf("If you had saved %s%s/month for the past %d months, you'd have %s%s MORE today! 🎯",
			CurrencySymbol, sc.Amount.String(), months, CurrencySymbol, diff.StringFixed(0))
	case model.AvoidCategory:
		return fmt.Sprintf("By avoiding this spending, you'd have %s%s extra in your account! 💰",
			CurrencySymbol, diff.StringFixed(0))
	case model.ReduceSpending:
		return fmt.Sprintf("Reducing spending by %s%% would have given you %s%s more! 📈",
			sc.Amount.String(), CurrencySymbol, diff.StringFixed(0))
	default:
		return "See how different choices create different futures!"
	}
}

// QuickScenarios returns the preset scenarios offered alongside custom ones.
func QuickScenarios() []model.QuickScenario {
	return []model.QuickScenario{
		{Label: "Save ₹1,000/month", Kind: model.SaveMonthly, Amount: decimal.NewFromInt(1000)},
		{Label: "Save ₹2,000/month", Kind: model.SaveMonthly, Amount: decimal.NewFromInt(2000)},
		{Label: "Reduce spending 20%", Kind: model.ReduceSpending, Amount: decimal.NewFromInt(20)},
		{Label: "Reduce spending 30%", Kind: model.ReduceSpending, Amount: decimal.NewFromInt(30)},
	}
}

// ScenarioFor turns a preset into a scenario starting at start.
func ScenarioFor(q model.QuickScenario, start time.Time) model.Scenario {
	return model.Scenario{Kind: q.Kind, Amount: q.Amount, StartDate: start}
}
