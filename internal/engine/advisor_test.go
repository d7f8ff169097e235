package engine

import (
	"testing"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

func TestAdviseFallback(t *testing.T) {
	d := Advise("coffee beans", decimal.NewFromInt(100), nil, nil, testNow)

	if d.Verdict != model.Consider {
		t.Fatalf("Verdict = %s, want CONSIDER", d.Verdict)
	}
	if d.Confidence != 60 {
		t.Fatalf("Confidence = %d, want 60", d.Confidence)
	}
	want := "Based on 0 similar past purchases, this seems like a typical decision for you."
	if d.Reasoning != want {
		t.Fatalf("Reasoning = %q, want %q", d.Reasoning, want)
	}
}

func TestAdviseRegretThresholdWithRegretMatch(t *testing.T) {
	profile := &model.SpendingProfile{
		ProfileAnswers: model.ProfileAnswers{RegretPurchase: model.StringPtr("Expensive shoes I never wear")},
	}

	d := Advise("Shoes for running", decimal.NewFromInt(6000), profile, nil, testNow)

	if d.Verdict != model.Wait {
		t.Fatalf("Verdict = %s, want WAIT", d.Verdict)
	}
	if d.Confidence != 90 {
		t.Fatalf("Confidence = %d, want 90", d.Confidence)
	}
	want := "Based on your history, you tend to regret purchases over ₹5000. You mentioned regretting similar purchases before."
	if d.Reasoning != want {
		t.Fatalf("Reasoning = %q, want %q", d.Reasoning, want)
	}
}

func TestAdviseSavingGoalAppends(t *testing.T) {
	profile := &model.SpendingProfile{
		ProfileAnswers: model.ProfileAnswers{SavingGoal: model.StringPtr("Laptop")},
	}

	d := Advise("tv for the lounge", decimal.NewFromInt(6000), profile, nil, testNow)

	if d.Verdict != model.Wait || d.Confidence != 85 {
		t.Fatalf("decision = %s/%d, want WAIT/85", d.Verdict, d.Confidence)
	}
	want := "Based on your history, you tend to regret purchases over ₹5000. " +
		"Remember, you're saving for Laptop. This could delay your goal."
	if d.Reasoning != want {
		t.Fatalf("Reasoning = %q, want %q", d.Reasoning, want)
	}
}

func TestAdviseHappyPurchaseReplacesReasoning(t *testing.T) {
	profile := &model.SpendingProfile{
		ProfileAnswers: model.ProfileAnswers{HappyPurchase: model.StringPtr("New headphones")},
	}

	d := Advise("headphones upgrade", decimal.NewFromInt(6000), profile, nil, testNow)

	if d.Verdict != model.Approve || d.Confidence != 80 {
		t.Fatalf("decision = %s/%d, want APPROVE/80", d.Verdict, d.Confidence)
	}
	if d.Reasoning != "This aligns with what makes you happy! Similar purchases brought you joy before." {
		t.Fatalf("Reasoning = %q", d.Reasoning)
	}
}

func TestAdviseBelowUsualSpending(t *testing.T) {
	txns := []model.Transaction{
		expenseDaysAgo(20, 1000, "Shopping"),
		expenseDaysAgo(21, 1100, "Shopping"),
	}

	d := Advise("jacket", decimal.NewFromInt(780), nil, txns, testNow)

	if d.Verdict != model.Approve || d.Confidence != 70 {
		t.Fatalf("decision = %s/%d, want APPROVE/70", d.Verdict, d.Confidence)
	}
	if d.SimilarPurchases != 1 {
		t.Fatalf("SimilarPurchases = %d, want 1", d.SimilarPurchases)
	}
	if d.Reasoning != "This is below your usual spending for similar items. Seems reasonable!" {
		t.Fatalf("Reasoning = %q", d.Reasoning)
	}
}

func TestAdviseImpulsive(t *testing.T) {
	txns := repeatExpense(11, 1, 2000)

	d := Advise("sneakers", decimal.NewFromInt(1500), nil, txns, testNow)

	if d.Behavior.SpendingStyle != model.StyleImpulsive {
		t.Fatalf("SpendingStyle = %s, want IMPULSIVE", d.Behavior.SpendingStyle)
	}
	if d.Verdict != model.Wait || d.Confidence != 70 {
		t.Fatalf("decision = %s/%d, want WAIT/70", d.Verdict, d.Confidence)
	}
	if d.Reasoning != "You have an impulsive spending pattern. Wait 24 hours before deciding." {
		t.Fatalf("Reasoning = %q", d.Reasoning)
	}
}

func TestAdviseDeterministic(t *testing.T) {
	profile := &model.SpendingProfile{
		ProfileAnswers: model.ProfileAnswers{
			SavingGoal:    model.StringPtr("House"),
			HappyPurchase: model.StringPtr("books"),
		},
	}
	txns := append(repeatExpense(12, 2, 3000), expenseDaysAgo(40, 200, "Books"))

	first := Advise("phone", decimal.NewFromInt(9000), profile, txns, testNow)
	for i := 0; i < 5; i++ {
		got := Advise("phone", decimal.NewFromInt(9000), profile, txns, testNow)
		if got.Verdict != first.Verdict || got.Reasoning != first.Reasoning ||
			got.Confidence != first.Confidence || got.SimilarPurchases != first.SimilarPurchases {
			t.Fatalf("run %d = %+v, want %+v", i, got, first)
		}
	}
	if first.Confidence < 0 || first.Confidence > 100 {
		t.Fatalf("Confidence = %d, outside [0,100]", first.Confidence)
	}
}

type overconfidentRule struct{ confidence int }

func (overconfidentRule) Name() string { return "overconfident" }

func (overconfidentRule) Matches(*AdviceContext, *model.Decision) bool { return true }

func (r overconfidentRule) Apply(_ *AdviceContext, d *model.Decision) { d.Confidence = r.confidence }

func TestAdvisorClampsConfidence(t *testing.T) {
	for _, c := range []int{150, -20} {
		d := NewAdvisor(overconfidentRule{confidence: c}).Advise("x", decimal.NewFromInt(1), nil, nil, testNow)
		if d.Confidence < 0 || d.Confidence > 100 {
			t.Fatalf("Confidence = %d for rule value %d, want within [0,100]", d.Confidence, c)
		}
	}
}

func TestFirstWordMatches(t *testing.T) {
	text := model.StringPtr("Weekend trip to Goa")

	if !firstWordMatches("TRIP planning", text) {
		t.Fatal("expected case-insensitive substring match")
	}
	if firstWordMatches("laptop", text) {
		t.Fatal("unexpected match for unrelated word")
	}
	if firstWordMatches("trip", nil) {
		t.Fatal("nil text must not match")
	}
	if !firstWordMatches(" trip", text) {
		t.Fatal("leading space yields an empty first word, which matches any text")
	}
}
