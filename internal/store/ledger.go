package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInsufficientFunds is returned when a transfer source cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// AddTransaction validates and stores a transaction, assigning an ID when
// empty. Account balances are not touched: imported transactions are
// history and balances are authoritative snapshots.
func (s *Store) AddTransaction(ctx context.Context, userID string, t *model.Transaction) error {
	return addTransaction(ctx, s.db, userID, t)
}

func addTransaction(ctx context.Context, db execer, userID string, t *model.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := ensureUser(ctx, db, userID); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO transactions
		(id, user_id, account_id, date, amount, type, category, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, userID, t.AccountID, formatTime(t.Date), t.Amount, string(t.Type),
		nullString(t.Category), t.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction %s: %w", t.ID, err)
	}
	return nil
}

// ListTransactions returns the user's transactions newest first. A
// non-positive limit returns all of them.
func (s *Store) ListTransactions(ctx context.Context, userID string, limit int) ([]model.Transaction, error) {
	query := `SELECT id, account_id, date, amount, type, category, description
		FROM transactions WHERE user_id = ? ORDER BY date DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var accountID, category, description sql.NullString
		var dateStr, typ string

		if err := rows.Scan(&t.ID, &accountID, &dateStr, &t.Amount, &typ, &category, &description); err != nil {
			return nil, err
		}
		t.Date, err = parseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %s date: %w", t.ID, err)
		}
		t.Type = model.TxType(typ)
		t.AccountID = accountID.String
		t.Category = stringPtr(category)
		t.Description = description.String
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// UpsertAccount inserts or replaces an account, assigning an ID when empty.
func (s *Store) UpsertAccount(ctx context.Context, userID string, a *model.Account) error {
	return upsertAccount(ctx, s.db, userID, a)
}

func upsertAccount(ctx context.Context, db execer, userID string, a *model.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := ensureUser(ctx, db, userID); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Name == "" {
		a.Name = a.ID
	}

	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO accounts
		(id, user_id, name, type, balance, is_default, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, userID, a.Name, string(a.Type), a.Balance, boolInt(a.IsDefault), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("upserting account %s: %w", a.ID, err)
	}
	return nil
}

// ListAccounts returns the user's accounts, default accounts first.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	return listAccounts(ctx, s.db, userID)
}

func listAccounts(ctx context.Context, db execer, userID string) ([]model.Account, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, type, balance, is_default
		FROM accounts WHERE user_id = ? ORDER BY is_default DESC, name, id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var typ string
		var isDefault int
		if err := rows.Scan(&a.ID, &a.Name, &typ, &a.Balance, &isDefault); err != nil {
			return nil, err
		}
		a.Type = model.AccountType(typ)
		a.IsDefault = isDefault != 0
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetBudget returns the user's budget, or nil when none is configured.
func (s *Store) GetBudget(ctx context.Context, userID string) (*model.Budget, error) {
	var b model.Budget
	var locked int
	err := s.db.QueryRowContext(ctx, `SELECT amount, is_locked FROM budgets WHERE user_id = ?`, userID).
		Scan(&b.Amount, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.IsLocked = locked != 0
	return &b, nil
}

// SetBudget stores the user's budget.
func (s *Store) SetBudget(ctx context.Context, userID string, b model.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.EnsureUser(ctx, userID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO budgets (user_id, amount, is_locked, updated_at)
		VALUES (?, ?, ?, ?)`, userID, b.Amount, boolInt(b.IsLocked), formatTime(time.Now()))
	return err
}

// SetBudgetLocked locks or unlocks the user's budget.
func (s *Store) SetBudgetLocked(ctx context.Context, userID string, locked bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE budgets SET is_locked = ?, updated_at = ? WHERE user_id = ?`,
		boolInt(locked), formatTime(time.Now()), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("budget for %s: %w", userID, ErrNotFound)
	}
	return nil
}

// Transfer describes a completed savings sweep.
type Transfer struct {
	From        model.Account     `json:"from"`
	To          model.Account     `json:"to"`
	Transaction model.Transaction `json:"transaction"`
	CreatedTo   bool              `json:"created_to"`
}

// AutoSavingsName names the savings account created on first sweep.
const AutoSavingsName = "Auto-Savings"

// TransferToSavings moves amount from the user's default CURRENT account
// (else the first other account) into their first SAVINGS account, creating
// one if needed, and records an INCOME transaction on the savings side. It
// runs in one database transaction.
func (s *Store) TransferToSavings(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (*Transfer, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer amount %s: %w", amount, model.ErrInvalid)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	accounts, err := listAccounts(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	var result Transfer
	to, ok := findAccount(accounts, func(a model.Account) bool { return a.Type == model.Savings })
	if !ok {
		to = model.Account{Name: AutoSavingsName, Type: model.Savings, Balance: decimal.Zero}
		if err := upsertAccount(ctx, tx, userID, &to); err != nil {
			return nil, err
		}
		result.CreatedTo = true
	}

	from, ok := findAccount(accounts, func(a model.Account) bool { return a.Type == model.Current && a.IsDefault })
	if !ok {
		from, ok = findAccount(accounts, func(a model.Account) bool { return a.ID != to.ID })
	}
	if !ok || from.Balance.LessThan(amount) {
		return nil, fmt.Errorf("sweeping %s for %s: %w", amount, userID, ErrInsufficientFunds)
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	for _, a := range []*model.Account{&from, &to} {
		if err := upsertAccount(ctx, tx, userID, a); err != nil {
			return nil, err
		}
	}

	result.Transaction = model.Transaction{
		Date:        at,
		Amount:      amount,
		Type:        model.Income,
		Category:    model.StringPtr("Savings"),
		Description: "Auto-Savings Transfer",
		AccountID:   to.ID,
	}
	if err := addTransaction(ctx, tx, userID, &result.Transaction); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	result.From, result.To = from, to
	return &result, nil
}

func findAccount(accounts []model.Account, match func(model.Account) bool) (model.Account, bool) {
	for _, a := range accounts {
		if match(a) {
			return a, true
		}
	}
	return model.Account{}, false
}
