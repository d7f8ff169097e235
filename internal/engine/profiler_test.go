package engine

import (
	"slices"
	"testing"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

func TestAnalyzeBehaviorEmptyLedger(t *testing.T) {
	b := AnalyzeBehavior(nil, nil, testNow)

	if b.RiskTolerance != model.RiskModerate {
		t.Fatalf("RiskTolerance = %s, want MODERATE", b.RiskTolerance)
	}
	if b.SpendingStyle != model.StyleBalanced {
		t.Fatalf("SpendingStyle = %s, want BALANCED", b.SpendingStyle)
	}
	assertDecimal(t, "RegretThreshold", b.RegretThreshold, decimal.NewFromInt(5000))
	if b.EmotionalTriggers == nil || len(b.EmotionalTriggers) != 0 {
		t.Fatalf("EmotionalTriggers = %v, want empty non-nil", b.EmotionalTriggers)
	}
}

func repeatExpense(n int, daysAgo int, amount int64) []model.Transaction {
	out := make([]model.Transaction, n)
	for i := range out {
		out[i] = expenseDaysAgo(daysAgo, amount, "")
	}
	return out
}

func TestAnalyzeBehaviorRiskTolerance(t *testing.T) {
	tests := []struct {
		name string
		txns []model.Transaction
		want model.RiskTolerance
	}{
		{"one large of ten", append(repeatExpense(9, 20, 100), expenseDaysAgo(20, 1000, "")), model.RiskLow},
		{"two large of ten", append(repeatExpense(8, 20, 100), repeatExpense(2, 20, 1000)...), model.RiskModerate},
		{"four large of ten", append(repeatExpense(6, 20, 10), repeatExpense(4, 20, 1000)...), model.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeBehavior(tt.txns, nil, testNow).RiskTolerance; got != tt.want {
				t.Fatalf("RiskTolerance = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnalyzeBehaviorSpendingStyle(t *testing.T) {
	tests := []struct {
		recent int
		want   model.SpendingStyle
	}{
		{11, model.StyleImpulsive},
		{6, model.StyleBalanced},
		{5, model.StyleCautious},
	}

	for _, tt := range tests {
		txns := append(repeatExpense(tt.recent, 1, 100), repeatExpense(20, 30, 100)...)
		if got := AnalyzeBehavior(txns, nil, testNow).SpendingStyle; got != tt.want {
			t.Fatalf("recent=%d: SpendingStyle = %s, want %s", tt.recent, got, tt.want)
		}
	}
}

func TestAnalyzeBehaviorRegretThreshold(t *testing.T) {
	txns := []model.Transaction{expenseDaysAgo(3, 100, "Food"), expenseDaysAgo(4, 300, "Food")}

	b := AnalyzeBehavior(txns, nil, testNow)
	assertDecimal(t, "computed", b.RegretThreshold, decimal.NewFromInt(300))

	stored := &model.SpendingProfile{Behavior: model.Behavior{RegretThreshold: decimal.NewFromInt(7000)}}
	b = AnalyzeBehavior(txns, stored, testNow)
	assertDecimal(t, "stored", b.RegretThreshold, decimal.NewFromInt(7000))

	unset := &model.SpendingProfile{}
	b = AnalyzeBehavior(txns, unset, testNow)
	assertDecimal(t, "unset", b.RegretThreshold, decimal.NewFromInt(300))
}

func TestAnalyzeBehaviorIncomeOnly(t *testing.T) {
	b := AnalyzeBehavior([]model.Transaction{incomeDaysAgo(1, 5000)}, nil, testNow)

	if b.RiskTolerance != model.RiskLow {
		t.Fatalf("RiskTolerance = %s, want LOW", b.RiskTolerance)
	}
	if b.SpendingStyle != model.StyleCautious {
		t.Fatalf("SpendingStyle = %s, want CAUTIOUS", b.SpendingStyle)
	}
	assertDecimal(t, "RegretThreshold", b.RegretThreshold, decimal.NewFromInt(5000))
	if len(b.EmotionalTriggers) != 0 {
		t.Fatalf("EmotionalTriggers = %v, want empty", b.EmotionalTriggers)
	}
}

func TestEmotionalTriggersOrdering(t *testing.T) {
	txns := []model.Transaction{
		expenseDaysAgo(1, 300, "Alpha"),
		expenseDaysAgo(1, 200, "Beta"),
		expenseDaysAgo(1, 300, "Gamma"),
		expenseDaysAgo(1, 100, "Delta"),
		expenseDaysAgo(1, 1000, ""),
		expenseDaysAgo(2, 300, "Beta"),
		txAt(testNow, 9000, model.Income, "Delta"),
	}

	got := EmotionalTriggers(txns, 3)
	want := []string{"Beta", "Alpha", "Gamma"}
	if !slices.Equal(got, want) {
		t.Fatalf("EmotionalTriggers = %v, want %v", got, want)
	}
}
