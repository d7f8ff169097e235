package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Budget is a user's monthly spending ceiling. A nil *Budget means no budget
// is configured and every budget-relative rule is skipped.
type Budget struct {
	Amount   decimal.Decimal `json:"amount"`
	IsLocked bool            `json:"is_locked"`
}

// Validate rejects non-positive budget amounts.
func (b Budget) Validate() error {
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: budget amount must be positive, got %s", ErrInvalid, b.Amount)
	}
	return nil
}

// UsagePercent returns spent as a percentage of the budget amount.
// Zero or negative budgets report 0.
func (b Budget) UsagePercent(spent decimal.Decimal) decimal.Decimal {
	if !b.Amount.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(b.Amount).Mul(decimal.NewFromInt(100))
}
