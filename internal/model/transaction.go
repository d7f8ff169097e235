// Package model defines domain types for welth ledgers, profiles and engine results.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalid is wrapped by every structural validation failure.
var ErrInvalid = errors.New("invalid record")

// TxType carries the direction of a transaction. Amounts are never signed.
type TxType string

const (
	Income  TxType = "INCOME"
	Expense TxType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction is one immutable ledger entry.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TxType          `json:"type"`
	Category    *string         `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	AccountID   string          `json:"account_id,omitempty"`
}

// IsExpense reports whether the transaction moves money out.
func (t Transaction) IsExpense() bool { return t.Type == Expense }

// IsIncome reports whether the transaction moves money in.
func (t Transaction) IsIncome() bool { return t.Type == Income }

// CategoryName returns the category or "" when uncategorized.
func (t Transaction) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return *t.Category
}

// Validate checks the structural contract required before a transaction
// reaches the engine.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction %q missing date", ErrInvalid, t.ID)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: transaction %q has type %q", ErrInvalid, t.ID, t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: transaction %q has negative amount %s", ErrInvalid, t.ID, t.Amount)
	}
	return nil
}

// StringPtr returns a pointer to s, or nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
