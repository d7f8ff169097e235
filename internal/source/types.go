package source

import (
	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

// RawRecord is the envelope shared by every ledger line. The "record" field
// routes the line to a concrete type.
type RawRecord struct {
	Record string `json:"record"`
	User   string `json:"user,omitempty"`
}

// RawTransaction is a "transaction" ledger line.
type RawTransaction struct {
	RawRecord
	ID          string          `json:"id,omitempty"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    *string         `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	AccountID   string          `json:"account_id,omitempty"`
}

// RawAccount is an "account" ledger line.
type RawAccount struct {
	RawRecord
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsDefault bool            `json:"is_default,omitempty"`
}

// RawBudget is a "budget" ledger line.
type RawBudget struct {
	RawRecord
	Amount   decimal.Decimal `json:"amount"`
	IsLocked bool            `json:"is_locked,omitempty"`
}

// UserTransaction is a parsed transaction owned by UserID.
type UserTransaction struct {
	UserID string
	model.Transaction
}

// UserAccount is a parsed account owned by UserID.
type UserAccount struct {
	UserID string
	model.Account
}

// UserBudget is a parsed budget owned by UserID.
type UserBudget struct {
	UserID string
	model.Budget
}

// DiscoveredFile represents a ledger file found during scanning.
type DiscoveredFile struct {
	Path      string
	UserID    string // from the enclosing directory, empty at the scan root
	MtimeNs   int64
	SizeBytes int64
}
