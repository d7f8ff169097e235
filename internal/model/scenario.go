package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ScenarioKind selects the counterfactual applied by the timeline simulator.
type ScenarioKind string

const (
	SaveMonthly    ScenarioKind = "SAVE_MONTHLY"
	AvoidCategory  ScenarioKind = "AVOID_CATEGORY"
	ReduceSpending ScenarioKind = "REDUCE_SPENDING"
)

// Scenario is a request-scoped what-if assumption. Amount is a currency
// amount for SAVE_MONTHLY and a percentage for REDUCE_SPENDING.
type Scenario struct {
	Kind      ScenarioKind    `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	StartDate time.Time       `json:"start_date"`
}

// Validate rejects scenarios missing a start date or carrying a negative
// amount. Unknown kinds are accepted and produce a generic result.
func (s Scenario) Validate() error {
	if s.StartDate.IsZero() {
		return fmt.Errorf("%w: scenario missing start date", ErrInvalid)
	}
	if s.Amount.IsNegative() {
		return fmt.Errorf("%w: scenario amount %s is negative", ErrInvalid, s.Amount)
	}
	return nil
}

// QuickScenario is a preset scenario offered in the time machine.
type QuickScenario struct {
	Label  string          `json:"label"`
	Kind   ScenarioKind    `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}
