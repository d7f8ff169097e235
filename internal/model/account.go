package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	Current    AccountType = "CURRENT"
	Savings    AccountType = "SAVINGS"
	Credit     AccountType = "CREDIT"
	Investment AccountType = "INVESTMENT"
)

// Account holds a balance. Credit-type balances may be negative.
type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Type      AccountType     `json:"type"`
	IsDefault bool            `json:"is_default"`
}

// Validate checks the account has an identity and a type.
func (a Account) Validate() error {
	if a.Name == "" && a.ID == "" {
		return fmt.Errorf("%w: account missing id and name", ErrInvalid)
	}
	if a.Type == "" {
		return fmt.Errorf("%w: account %q missing type", ErrInvalid, a.Name)
	}
	return nil
}

// TotalBalance sums every account balance.
func TotalBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// SavingsBalance sums the balances of SAVINGS accounts.
func SavingsBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type == Savings {
			total = total.Add(a.Balance)
		}
	}
	return total
}
