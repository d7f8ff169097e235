package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/store"

	"github.com/shopspring/decimal"
)

// LedgerReader is the read side of the ledger store.
type LedgerReader interface {
	ListTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error)
	ListAccounts(ctx context.Context, userID string) ([]model.Account, error)
	GetBudget(ctx context.Context, userID string) (*model.Budget, error)
	GetProfile(ctx context.Context, userID string) (*model.SpendingProfile, error)
}

// Snapshot is one user's ledger materialized at a single instant. Every
// engine call made for one request reads the same Snapshot.
type Snapshot struct {
	UserID       string
	Now          time.Time
	Transactions []model.Transaction
	Accounts     []model.Account
	Budget       *model.Budget
	Profile      *model.SpendingProfile
}

// TotalBalance sums every account balance in the snapshot.
func (s *Snapshot) TotalBalance() decimal.Decimal {
	return model.TotalBalance(s.Accounts)
}

// LoadSnapshot reads the user's ledger. limit caps the number of most recent
// transactions, non-positive meaning all. A missing profile leaves Profile nil.
func LoadSnapshot(ctx context.Context, r LedgerReader, userID string, limit int, now time.Time) (*Snapshot, error) {
	txns, err := r.ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	accounts, err := r.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	budget, err := r.GetBudget(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading budget: %w", err)
	}
	profile, err := r.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	return &Snapshot{
		UserID:       userID,
		Now:          now,
		Transactions: txns,
		Accounts:     accounts,
		Budget:       budget,
		Profile:      profile,
	}, nil
}
