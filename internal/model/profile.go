package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskTolerance is derived from the share of unusually large purchases.
type RiskTolerance string

const (
	RiskLow      RiskTolerance = "LOW"
	RiskModerate RiskTolerance = "MODERATE"
	RiskHigh     RiskTolerance = "HIGH"
)

// SpendingStyle is derived from recent purchase frequency.
type SpendingStyle string

const (
	StyleImpulsive SpendingStyle = "IMPULSIVE"
	StyleBalanced  SpendingStyle = "BALANCED"
	StyleCautious  SpendingStyle = "CAUTIOUS"
)

// Behavior holds the profile fields computed from ledger history.
type Behavior struct {
	RiskTolerance     RiskTolerance   `json:"risk_tolerance"`
	SpendingStyle     SpendingStyle   `json:"spending_style"`
	RegretThreshold   decimal.Decimal `json:"regret_threshold"`
	EmotionalTriggers []string        `json:"emotional_triggers"`
}

// ProfileAnswers are the free-text personality quiz answers. Nil means
// unanswered.
type ProfileAnswers struct {
	HappyPurchase  *string `json:"happy_purchase,omitempty"`
	RegretPurchase *string `json:"regret_purchase,omitempty"`
	FinancialFear  *string `json:"financial_fear,omitempty"`
	SavingGoal     *string `json:"saving_goal,omitempty"`
	MoneyFeeling   *string `json:"money_feeling,omitempty"`
}

// SpendingProfile is the persisted per-user profile read by the advisor.
type SpendingProfile struct {
	UserID string `json:"user_id"`
	Behavior
	ProfileAnswers
	ApprovedDecisions int       `json:"approved_decisions"`
	RejectedDecisions int       `json:"rejected_decisions"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Merge overlays the non-nil answers in a onto p.
func (p *ProfileAnswers) Merge(a ProfileAnswers) {
	if a.HappyPurchase != nil {
		p.HappyPurchase = a.HappyPurchase
	}
	if a.RegretPurchase != nil {
		p.RegretPurchase = a.RegretPurchase
	}
	if a.FinancialFear != nil {
		p.FinancialFear = a.FinancialFear
	}
	if a.SavingGoal != nil {
		p.SavingGoal = a.SavingGoal
	}
	if a.MoneyFeeling != nil {
		p.MoneyFeeling = a.MoneyFeeling
	}
}

// PersonalityQuestion is one prompt of the profile quiz.
type PersonalityQuestion struct {
	Key         string `json:"key"`
	Question    string `json:"question"`
	Placeholder string `json:"placeholder"`
}

// PersonalityQuestions lists the quiz prompts in display order.
var PersonalityQuestions = []PersonalityQuestion{
	{Key: "happy_purchase", Question: "What recent purchase made you happiest?", Placeholder: "e.g., New headphones, Weekend trip, Gym membership"},
	{Key: "regret_purchase", Question: "What purchase do you regret?", Placeholder: "e.g., Expensive shoes I never wear, Unused subscription"},
	{Key: "financial_fear", Question: "What's your biggest financial fear?", Placeholder: "e.g., Running out of money, Not saving enough, Debt"},
	{Key: "saving_goal", Question: "What are you saving for?", Placeholder: "e.g., Laptop, Emergency fund, Vacation, House"},
	{Key: "money_feeling", Question: "How do you feel about money?", Placeholder: "e.g., Stressed, Confident, Anxious, In control"},
}

// Answer returns a pointer to the answer field named by key, or nil when the
// key is unknown.
func (p *ProfileAnswers) Answer(key string) **string {
	switch key {
	case "happy_purchase":
		return &p.HappyPurchase
	case "regret_purchase":
		return &p.RegretPurchase
	case "financial_fear":
		return &p.FinancialFear
	case "saving_goal":
		return &p.SavingGoal
	case "money_feeling":
		return &p.MoneyFeeling
	}
	return nil
}
