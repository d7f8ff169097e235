package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

var (
	similarTolerance = decimal.RequireFromString("0.3")
	belowUsualFactor = decimal.RequireFromString("0.8")
	impulsiveFloor   = decimal.NewFromInt(1000)
	savingGoalFloor  = decimal.NewFromInt(5000)
)

const initialConfidence = 50

// AdviceContext is the read-only input every rule evaluates against.
type AdviceContext struct {
	Question   string
	Amount     decimal.Decimal
	Profile    *model.SpendingProfile
	Behavior   model.Behavior
	Similar    []model.Transaction
	AvgSimilar decimal.Decimal
}

// Rule is one step of the advice cascade. Matches sees the decision built by
// the earlier rules; Apply mutates it.
type Rule interface {
	Name() string
	Matches(c *AdviceContext, d *model.Decision) bool
	Apply(c *AdviceContext, d *model.Decision)
}

// DefaultRules returns the advice cascade in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		regretThresholdRule{},
		impulsiveRule{},
		savingGoalRule{},
		happyPurchaseRule{},
		belowUsualRule{},
		fallbackRule{},
	}
}

// Advisor evaluates an ordered rule cascade over a proposed purchase.
type Advisor struct {
	rules []Rule
}

// NewAdvisor returns an advisor running rules in order, or DefaultRules when
// none are given.
func NewAdvisor(rules ...Rule) *Advisor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Advisor{rules: rules}
}

// Advise runs the default cascade.
func Advise(question string, amount decimal.Decimal, profile *model.SpendingProfile, txns []model.Transaction, now time.Time) model.Decision {
	return NewAdvisor().Advise(question, amount, profile, txns, now)
}

// Advise builds the context, applies every matching rule in order, then
// trims the reasoning and clamps confidence to [0, 100].
func (a *Advisor) Advise(question string, amount decimal.Decimal, profile *model.SpendingProfile, txns []model.Transaction, now time.Time) model.Decision {
	c := NewAdviceContext(question, amount, profile, txns, now)

	d := model.Decision{
		Verdict:    model.Consider,
		Confidence: initialConfidence,
	}
	for _, r := range a.rules {
		if r.Matches(c, &d) {
			r.Apply(c, &d)
		}
	}

	d.Reasoning = strings.TrimSpace(d.Reasoning)
	d.Confidence = clampConfidence(d.Confidence)
	d.SimilarPurchases = len(c.Similar)
	d.Behavior = c.Behavior
	return d
}

// NewAdviceContext computes the behavior snapshot and similar purchases.
func NewAdviceContext(question string, amount decimal.Decimal, profile *model.SpendingProfile, txns []model.Transaction, now time.Time) *AdviceContext {
	similar := SimilarPurchases(txns, amount)
	avg := amount
	if len(similar) > 0 {
		avg = mean(similar)
	}
	return &AdviceContext{
		Question:   question,
		Amount:     amount,
		Profile:    profile,
		Behavior:   AnalyzeBehavior(txns, profile, now),
		Similar:    similar,
		AvgSimilar: avg,
	}
}

// SimilarPurchases returns expenses within 30% of amount.
func SimilarPurchases(txns []model.Transaction, amount decimal.Decimal) []model.Transaction {
	tolerance := amount.Mul(similarTolerance)
	var out []model.Transaction
	for _, t := range txns {
		if t.IsExpense() && t.Amount.Sub(amount).Abs().LessThan(tolerance) {
			out = append(out, t)
		}
	}
	return out
}

// firstWordMatches lowercases the question, takes everything before the
// first space and reports whether text contains it.
func firstWordMatches(question string, text *string) bool {
	if text == nil || *text == "" {
		return false
	}
	word := strings.Split(strings.ToLower(question), " ")[0]
	return strings.Contains(strings.ToLower(*text), word)
}

func clampConfidence(c int) int {
	return max(0, min(100, c))
}

type regretThresholdRule struct{}

func (regretThresholdRule) Name() string { return "regret_threshold" }

func (regretThresholdRule) Matches(c *AdviceContext, _ *model.Decision) bool {
	return c.Amount.GreaterThan(c.Behavior.RegretThreshold)
}

func (regretThresholdRule) Apply(c *AdviceContext, d *model.Decision) {
	d.Verdict = model.Wait
	d.Reasoning += fmt.Sprintf("Based on your history, you tend to regret purchases over %s%s. ",
		CurrencySymbol, c.Behavior.RegretThreshold.StringFixed(0))
	d.Confidence = max(d.Confidence, 75)

	if c.Profile != nil && firstWordMatches(c.Question, c.Profile.RegretPurchase) {
		d.Reasoning += "You mentioned regretting similar purchases before. "
		d.Confidence = max(d.Confidence, 90)
	}
}

type impulsiveRule struct{}

func (impulsiveRule) Name() string { return "impulsive" }

func (impulsiveRule) Matches(c *AdviceContext, _ *model.Decision) bool {
	return c.Behavior.SpendingStyle == model.StyleImpulsive && c.Amount.GreaterThan(impulsiveFloor)
}

func (impulsiveRule) Apply(_ *AdviceContext, d *model.Decision) {
	d.Verdict = model.Wait
	d.Reasoning += "You have an impulsive spending pattern. Wait 24 hours before deciding. "
	d.Confidence = max(d.Confidence, 70)
}

type savingGoalRule struct{}

func (savingGoalRule) Name() string { return "saving_goal" }

func (savingGoalRule) Matches(c *AdviceContext, _ *model.Decision) bool {
	return c.Profile != nil && c.Profile.SavingGoal != nil && *c.Profile.SavingGoal != "" &&
		c.Amount.GreaterThan(savingGoalFloor)
}

func (savingGoalRule) Apply(c *AdviceContext, d *model.Decision) {
	d.Verdict = model.Wait
	d.Reasoning += fmt.Sprintf("Remember, you're saving for %s. This could delay your goal. ", *c.Profile.SavingGoal)
	d.Confidence = max(d.Confidence, 85)
}

// happyPurchaseRule replaces the accumulated reasoning rather than
// appending to it.
type happyPurchaseRule struct{}

func (happyPurchaseRule) Name() string { return "happy_purchase" }

func (happyPurchaseRule) Matches(c *AdviceContext, _ *model.Decision) bool {
	return c.Profile != nil && firstWordMatches(c.Question, c.Profile.HappyPurchase)
}

func (happyPurchaseRule) Apply(_ *AdviceContext, d *model.Decision) {
	d.Verdict = model.Approve
	d.Reasoning = "This aligns with what makes you happy! Similar purchases brought you joy before. "
	d.Confidence = 80
}

type belowUsualRule struct{}

func (belowUsualRule) Name() string { return "below_usual" }

func (belowUsualRule) Matches(c *AdviceContext, d *model.Decision) bool {
	return d.Verdict == model.Consider && c.Amount.LessThan(c.AvgSimilar.Mul(belowUsualFactor))
}

func (belowUsualRule) Apply(_ *AdviceContext, d *model.Decision) {
	d.Verdict = model.Approve
	d.Reasoning += "This is below your usual spending for similar items. Seems reasonable! "
	d.Confidence = 70
}

type fallbackRule struct{}

func (fallbackRule) Name() string { return "fallback" }

func (fallbackRule) Matches(_ *AdviceContext, d *model.Decision) bool {
	return strings.TrimSpace(d.Reasoning) == ""
}

func (fallbackRule) Apply(c *AdviceContext, d *model.Decision) {
	d.Reasoning = fmt.Sprintf("Based on %d similar past purchases, this seems like a typical decision for you. ", len(c.Similar))
	d.Confidence = 60
}
