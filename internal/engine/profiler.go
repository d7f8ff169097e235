package engine

import (
	"slices"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// Profiler thresholds.
const (
	DefaultRegretThreshold = 5000
	RecentWindowDays       = 7
	MaxEmotionalTriggers   = 3
)

var (
	highRiskShare     = decimal.RequireFromString("0.3")
	moderateRiskShare = decimal.RequireFromString("0.1")
	regretMultiplier  = decimal.RequireFromString("1.5")
	largeMultiplier   = decimal.NewFromInt(2)
)

// DefaultBehavior is reported for an empty ledger.
func DefaultBehavior() model.Behavior {
	return model.Behavior{
		RiskTolerance:     model.RiskModerate,
		SpendingStyle:     model.StyleBalanced,
		RegretThreshold:   decimal.NewFromInt(DefaultRegretThreshold),
		EmotionalTriggers: []string{},
	}
}

// AnalyzeBehavior derives the behavioral profile fields from the ledger.
// A positive regret threshold already stored on profile is kept.
func AnalyzeBehavior(txns []model.Transaction, profile *model.SpendingProfile, now time.Time) model.Behavior {
	if len(txns) == 0 {
		return DefaultBehavior()
	}

	exp := expenses(txns)
	avg := mean(exp)

	return model.Behavior{
		RiskTolerance:     riskTolerance(exp, avg),
		SpendingStyle:     spendingStyle(exp, now),
		RegretThreshold:   regretThreshold(profile, avg, len(exp)),
		EmotionalTriggers: EmotionalTriggers(exp, MaxEmotionalTriggers),
	}
}

func riskTolerance(exp []model.Transaction, avg decimal.Decimal) model.RiskTolerance {
	limit := avg.Mul(largeMultiplier)
	large := 0
	for _, t := range exp {
		if t.Amount.GreaterThan(limit) {
			large++
		}
	}

	n := decimal.NewFromInt(int64(len(exp)))
	count := decimal.NewFromInt(int64(large))
	switch {
	case count.GreaterThan(n.Mul(highRiskShare)):
		return model.RiskHigh
	case count.GreaterThan(n.Mul(moderateRiskShare)):
		return model.RiskModerate
	default:
		return model.RiskLow
	}
}

func spendingStyle(exp []model.Transaction, now time.Time) model.SpendingStyle {
	since := now.AddDate(0, 0, -RecentWindowDays)
	recent := 0
	for _, t := range exp {
		if inWindow(t.Date, since, now) {
			recent++
		}
	}

	switch {
	case recent > 10:
		return model.StyleImpulsive
	case recent > 5:
		return model.StyleBalanced
	default:
		return model.StyleCautious
	}
}

func regretThreshold(profile *model.SpendingProfile, avg decimal.Decimal, expenseCount int) decimal.Decimal {
	if profile != nil && profile.RegretThreshold.IsPositive() {
		return profile.RegretThreshold
	}
	if expenseCount == 0 {
		return decimal.NewFromInt(DefaultRegretThreshold)
	}
	return avg.Mul(regretMultiplier)
}

// EmotionalTriggers returns up to n categories ranked by total EXPENSE
// amount. Ties keep first-seen order. Uncategorized expenses are skipped.
func EmotionalTriggers(txns []model.Transaction, n int) []string {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range txns {
		if !t.IsExpense() || t.Category == nil || *t.Category == "" {
			continue
		}
		cat := *t.Category
		if _, seen := totals[cat]; !seen {
			order = append(order, cat)
			totals[cat] = decimal.Zero
		}
		totals[cat] = totals[cat].Add(t.Amount)
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return totals[b].Cmp(totals[a])
	})

	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		order = []string{}
	}
	return order
}
