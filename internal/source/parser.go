// Package source discovers and parses JSONL ledger files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/google/uuid"
)

// Byte patterns for record routing.
var (
	patRecord1 = []byte(`"record":"`)
	patRecord2 = []byte(`"record": "`)
)

// recordNamespace seeds the IDs derived for records that carry none.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("welth:ledger-record"))

// ParseResult holds the output of parsing a single ledger file.
type ParseResult struct {
	File         DiscoveredFile
	Transactions []UserTransaction
	Accounts     []UserAccount
	Budgets      []UserBudget
	ParseErrors  int
	Err          error
}

// Records returns the number of parsed records.
func (r ParseResult) Records() int {
	return len(r.Transactions) + len(r.Accounts) + len(r.Budgets)
}

// ParseFile reads a JSONL ledger file. Records without a "user" field belong
// to the file's user, else to defaultUser.
//
// Line routing by top-level "record" field:
//   - "transaction" → RawTransaction
//   - "account"     → RawAccount
//   - "budget"      → RawBudget
//   - blank lines are skipped; anything else counts as a parse error
//
// Records without an "id" get one derived from their content, so importing
// the same file again replaces rows instead of adding them. Accounts are
// keyed by user and name; transactions by user, line text and how many
// identical lines came before it in the file.
func ParseFile(df DiscoveredFile, defaultUser string) ParseResult {
	result := ParseResult{File: df}

	f, err := os.Open(df.Path)
	if err != nil {
		result.Err = err
		return result
	}
	defer func() { _ = f.Close() }()

	owner := df.UserID
	if owner == "" {
		owner = defaultUser
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	seen := make(map[string]int)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		occurrence := seen[string(line)]
		seen[string(line)]++
		if err := result.parseLine(line, owner, occurrence); err != nil {
			result.ParseErrors++
		}
	}
	if err := scanner.Err(); err != nil {
		result.Err = err
	}

	return result
}

func (r *ParseResult) parseLine(line []byte, owner string, occurrence int) error {
	switch extractRecordType(line) {
	case "transaction":
		var raw RawTransaction
		if err := json.Unmarshal(line, &raw); err != nil {
			return err
		}
		t, err := raw.toModel()
		if err != nil {
			return err
		}
		user := userOr(raw.User, owner)
		if t.ID == "" {
			t.ID = TransactionID(user, line, occurrence)
		}
		r.Transactions = append(r.Transactions, UserTransaction{UserID: user, Transaction: t})

	case "account":
		var raw RawAccount
		if err := json.Unmarshal(line, &raw); err != nil {
			return err
		}
		a := model.Account{
			ID:        raw.ID,
			Name:      raw.Name,
			Type:      model.AccountType(strings.ToUpper(raw.Type)),
			Balance:   raw.Balance,
			IsDefault: raw.IsDefault,
		}
		if err := a.Validate(); err != nil {
			return err
		}
		user := userOr(raw.User, owner)
		if a.ID == "" {
			a.ID = AccountID(user, a.Name)
		}
		r.Accounts = append(r.Accounts, UserAccount{UserID: user, Account: a})

	case "budget":
		var raw RawBudget
		if err := json.Unmarshal(line, &raw); err != nil {
			return err
		}
		b := model.Budget{Amount: raw.Amount, IsLocked: raw.IsLocked}
		if err := b.Validate(); err != nil {
			return err
		}
		r.Budgets = append(r.Budgets, UserBudget{UserID: userOr(raw.User, owner), Budget: b})

	default:
		return fmt.Errorf("unknown record type in %q", truncate(line, 40))
	}
	return nil
}

// TransactionID derives the ID of an id-less transaction line. occurrence
// tells apart identical lines within one file.
func TransactionID(user string, line []byte, occurrence int) string {
	key := fmt.Sprintf("transaction\x00%s\x00%d\x00%s", user, occurrence, line)
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}

// AccountID derives the ID of an id-less account. Names match case-insensitively,
// so a later line for "main" updates the "Main" account.
func AccountID(user, name string) string {
	key := "account\x00" + user + "\x00" + strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}

func (raw RawTransaction) toModel() (model.Transaction, error) {
	date, err := ParseDate(raw.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	t := model.Transaction{
		ID:          raw.ID,
		Date:        date,
		Amount:      raw.Amount,
		Type:        model.TxType(strings.ToUpper(raw.Type)),
		Category:    raw.Category,
		Description: raw.Description,
		AccountID:   raw.AccountID,
	}
	if t.Category != nil && *t.Category == "" {
		t.Category = nil
	}
	return t, t.Validate()
}

// ParseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates, which are
// read as local midnight.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", model.ErrInvalid)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", model.ErrInvalid, s)
	}
	return t, nil
}

func userOr(user, fallback string) string {
	if user != "" {
		return user
	}
	return fallback
}

// extractRecordType pulls the "record" value without a full unmarshal.
func extractRecordType(line []byte) string {
	idx := bytes.Index(line, patRecord1)
	n := len(patRecord1)
	if idx < 0 {
		idx = bytes.Index(line, patRecord2)
		n = len(patRecord2)
	}
	if idx < 0 {
		return ""
	}
	rest := line[idx+n:]
	end := bytes.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return string(rest[:end])
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
