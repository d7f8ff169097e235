package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryStats holds the top-level aggregate over a ledger period.
type SummaryStats struct {
	Transactions int
	Incomes      int
	Expenses     int
	ActiveDays   int

	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	Net          decimal.Decimal

	IncomePerDay   decimal.Decimal
	ExpensePerDay  decimal.Decimal
	AvgExpense     decimal.Decimal
	LargestExpense decimal.Decimal
}

// DailyStats holds ledger activity for a single calendar day.
type DailyStats struct {
	Date         time.Time
	Transactions int
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Net          decimal.Decimal
}

// CategoryStats holds aggregated expense for a single category.
type CategoryStats struct {
	Category       string
	Transactions   int
	Expense        decimal.Decimal
	SharePercent   float64
	TrendDirection int // -1, 0, +1 vs previous period
}

// MonthlyStats holds ledger activity for one calendar month.
type MonthlyStats struct {
	Month   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// PeriodComparison holds current and previous period data for delta computation.
type PeriodComparison struct {
	Current  SummaryStats
	Previous SummaryStats
}

// BalancePoint is one reconstructed daily balance. DayOffset is 0 for today
// and negative for past days.
type BalancePoint struct {
	Date      time.Time       `json:"date"`
	Balance   decimal.Decimal `json:"balance"`
	DayOffset int             `json:"day_offset"`
}

// ForecastPoint is one projected daily balance. DayOffset is 0 for today.
type ForecastPoint struct {
	Date      time.Time       `json:"date"`
	Predicted decimal.Decimal `json:"predicted"`
	DayOffset int             `json:"day_offset"`
}

// BalanceState is a pair of total and savings balances.
type BalanceState struct {
	Balance decimal.Decimal `json:"balance"`
	Savings decimal.Decimal `json:"savings"`
}

// Impact quantifies the gap between a scenario and reality.
type Impact struct {
	Difference      decimal.Decimal `json:"difference"`
	PercentageGain  string          `json:"percentage_gain"`
	SavedAmount     decimal.Decimal `json:"saved_amount"`
	AvoidedExpenses decimal.Decimal `json:"avoided_expenses"`
	MonthsPassed    int             `json:"months_passed"`
}

// Timeline is the alternate-timeline simulation result.
type Timeline struct {
	Current   BalanceState `json:"current"`
	Alternate BalanceState `json:"alternate"`
	Impact    Impact       `json:"impact"`
	Message   string       `json:"message"`
}
