package engine

import (
	"testing"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

func TestEvaluateGuardianNoBudget(t *testing.T) {
	plan := EvaluateGuardian(nil, accountsTotaling(5000), nil, 80, testNow)
	if plan.Action != ActionNone {
		t.Fatalf("Action = %s, want NONE", plan.Action)
	}
	assertDecimal(t, "TotalBalance", plan.Stats.TotalBalance, decimal.NewFromInt(5000))
}

func TestEvaluateGuardianLocksOverspentBudget(t *testing.T) {
	budget := &model.Budget{Amount: decimal.NewFromInt(1000)}
	txns := []model.Transaction{expenseDaysAgo(3, 850, "Shopping")}

	plan := EvaluateGuardian(txns, accountsTotaling(5000), budget, 80, testNow)

	if plan.Action != ActionLockBudget {
		t.Fatalf("Action = %s, want LOCKED_BUDGET", plan.Action)
	}
	if !plan.Stats.IsLocked {
		t.Fatal("Stats.IsLocked = false, want true")
	}
	assertDecimal(t, "BudgetUsage", plan.Stats.BudgetUsage, decimal.NewFromInt(85))
}

func TestEvaluateGuardianAutoSaves(t *testing.T) {
	budget := &model.Budget{Amount: decimal.NewFromInt(1000)}
	txns := []model.Transaction{expenseDaysAgo(3, 500, "Food")}

	plan := EvaluateGuardian(txns, accountsTotaling(5000), budget, 0, testNow)

	if plan.Action != ActionAutoSave {
		t.Fatalf("Action = %s, want AUTO_SAVED", plan.Action)
	}
	assertDecimal(t, "Amount", plan.Amount, decimal.NewFromInt(150))
}

func TestEvaluateGuardianBetweenThresholds(t *testing.T) {
	budget := &model.Budget{Amount: decimal.NewFromInt(1000)}
	txns := []model.Transaction{expenseDaysAgo(3, 750, "Food")}

	plan := EvaluateGuardian(txns, accountsTotaling(5000), budget, 80, testNow)
	if plan.Action != ActionNone {
		t.Fatalf("Action = %s, want NONE between save and lock thresholds", plan.Action)
	}
}

func TestEvaluateGuardianLockedBudget(t *testing.T) {
	budget := &model.Budget{Amount: decimal.NewFromInt(1000), IsLocked: true}
	txns := []model.Transaction{expenseDaysAgo(3, 950, "Food")}

	plan := EvaluateGuardian(txns, accountsTotaling(5000), budget, 80, testNow)
	if plan.Action != ActionNone || !plan.Stats.IsLocked {
		t.Fatalf("plan = %+v, want NONE with IsLocked", plan)
	}
}
