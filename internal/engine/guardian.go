package engine

import (
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultLockPercent is the budget usage above which the guardian locks.
const DefaultLockPercent = 80

// GuardianAction is the step the guardian decided to take.
type GuardianAction string

const (
	ActionNone       GuardianAction = "NONE"
	ActionLockBudget GuardianAction = "LOCKED_BUDGET"
	ActionAutoSave   GuardianAction = "AUTO_SAVED"
)

// GuardianStats summarizes the figures the decision was based on.
type GuardianStats struct {
	TotalBalance  decimal.Decimal `json:"total_balance"`
	MonthExpenses decimal.Decimal `json:"current_month_expenses"`
	BudgetUsage   decimal.Decimal `json:"budget_usage"`
	IsLocked      bool            `json:"is_locked"`
}

// GuardianPlan is the guardian's decision for one user.
type GuardianPlan struct {
	Action GuardianAction  `json:"action"`
	Amount decimal.Decimal `json:"amount"`
	Stats  GuardianStats   `json:"stats"`
}

// EvaluateGuardian decides whether to lock the budget or sweep a safe
// amount into savings. Both actions need an unlocked budget; locking wins
// when usage exceeds lockPercent. A non-positive lockPercent uses
// DefaultLockPercent.
func EvaluateGuardian(txns []model.Transaction, accounts []model.Account, budget *model.Budget, lockPercent int, now time.Time) GuardianPlan {
	if lockPercent <= 0 {
		lockPercent = DefaultLockPercent
	}

	monthExp := MonthExpenses(txns, now)
	stats := GuardianStats{
		TotalBalance:  model.TotalBalance(accounts),
		MonthExpenses: monthExp,
		BudgetUsage:   decimal.Zero,
	}
	if budget != nil {
		stats.BudgetUsage = budget.UsagePercent(monthExp)
		stats.IsLocked = budget.IsLocked
	}

	plan := GuardianPlan{Action: ActionNone, Amount: decimal.Zero, Stats: stats}
	if budget == nil || budget.IsLocked {
		return plan
	}

	if stats.BudgetUsage.GreaterThan(decimal.NewFromInt(int64(lockPercent))) {
		plan.Action = ActionLockBudget
		plan.Stats.IsLocked = true
		return plan
	}

	if amount := SafeToSave(txns, accounts, budget, now); amount.IsPositive() {
		plan.Action = ActionAutoSave
		plan.Amount = amount
	}
	return plan
}
