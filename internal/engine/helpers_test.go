package engine

import (
	"testing"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func txAt(at time.Time, amount int64, typ model.TxType, category string) model.Transaction {
	return model.Transaction{
		Date:     at,
		Amount:   decimal.NewFromInt(amount),
		Type:     typ,
		Category: model.StringPtr(category),
	}
}

func expenseDaysAgo(days int, amount int64, category string) model.Transaction {
	return txAt(testNow.AddDate(0, 0, -days), amount, model.Expense, category)
}

func incomeDaysAgo(days int, amount int64) model.Transaction {
	return txAt(testNow.AddDate(0, 0, -days), amount, model.Income, "")
}

func accountsTotaling(amount int64) []model.Account {
	return []model.Account{{ID: "a1", Name: "Main", Type: model.Current, Balance: decimal.NewFromInt(amount), IsDefault: true}}
}

func assertDecimal(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}
