// Package service exposes welth's user-level operations. The CLI, the TUI
// and the HTTP API all go through it, so every surface computes results
// from the same snapshot rules.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/guardian"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/pipeline"
	"github.com/theirongolddev/welth/internal/source"
	"github.com/theirongolddev/welth/internal/store"

	"github.com/shopspring/decimal"
)

const (
	// AdviceTransactions is how many recent transactions advice reads.
	AdviceTransactions = 100
	// DefaultDays is used when a request gives no horizon.
	DefaultDays = 30
	// MaxDays bounds history and forecast horizons.
	MaxDays = 730

	recentInsights = 5
)

// ErrNoProfile is returned by Ask when the user has not taken the quiz.
var ErrNoProfile = errors.New("please complete your personality quiz first")

// Service runs user-level operations against one store.
type Service struct {
	store       *store.Store
	runner      *guardian.Runner
	advisor     *engine.Advisor
	defaultDays int
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithDefaultDays sets the horizon used when a request passes zero days.
func WithDefaultDays(days int) Option { return func(s *Service) { s.defaultDays = days } }

// New creates a Service. runner may be nil, which disables Guardian.
func New(st *store.Store, runner *guardian.Runner, opts ...Option) *Service {
	s := &Service{
		store:       st,
		runner:      runner,
		advisor:     engine.NewAdvisor(),
		defaultDays: DefaultDays,
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Snapshot loads the user's ledger with at most limit recent transactions.
func (s *Service) Snapshot(ctx context.Context, userID string, limit int) (*pipeline.Snapshot, error) {
	return pipeline.LoadSnapshot(ctx, s.store, userID, limit, s.now())
}

func (s *Service) days(days int) (int, error) {
	switch {
	case days == 0:
		return s.defaultDays, nil
	case days < 0 || days > MaxDays:
		return 0, fmt.Errorf("%w: days must be between 1 and %d", model.ErrInvalid, MaxDays)
	default:
		return days, nil
	}
}

// HistoryReport is a reconstructed balance series.
type HistoryReport struct {
	UserID         string               `json:"user_id"`
	Days           int                  `json:"days"`
	CurrentBalance decimal.Decimal      `json:"current_balance"`
	Points         []model.BalancePoint `json:"points"`
}

// History reconstructs the user's daily balances over the past days.
func (s *Service) History(ctx context.Context, userID string, days int) (*HistoryReport, error) {
	days, err := s.days(days)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return historyReport(snap, days), nil
}

func historyReport(snap *pipeline.Snapshot, days int) *HistoryReport {
	current := snap.TotalBalance()
	return &HistoryReport{
		UserID:         snap.UserID,
		Days:           days,
		CurrentBalance: current,
		Points:         engine.HistoricalBalance(snap.Transactions, current, days, snap.Now),
	}
}

// ForecastReport is a projected balance series.
type ForecastReport struct {
	UserID        string                `json:"user_id"`
	Days          int                   `json:"days"`
	WindowIncome  decimal.Decimal       `json:"window_income"`
	WindowExpense decimal.Decimal       `json:"window_expense"`
	DailyNet      decimal.Decimal       `json:"daily_net"`
	SafeToSave    decimal.Decimal       `json:"safe_to_save"`
	Points        []model.ForecastPoint `json:"points"`
}

// Forecast projects the user's balance over the next days.
func (s *Service) Forecast(ctx context.Context, userID string, days int) (*ForecastReport, error) {
	days, err := s.days(days)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return forecastReport(snap, days), nil
}

func forecastReport(snap *pipeline.Snapshot, days int) *ForecastReport {
	income, expense := engine.WindowTotals(snap.Transactions, snap.Now)
	return &ForecastReport{
		UserID:        snap.UserID,
		Days:          days,
		WindowIncome:  income,
		WindowExpense: expense,
		DailyNet:      engine.DailyNet(snap.Transactions, snap.Now),
		SafeToSave:    engine.SafeToSave(snap.Transactions, snap.Accounts, snap.Budget, snap.Now),
		Points:        engine.ForecastCashFlow(snap.Transactions, snap.Accounts, days, snap.Now),
	}
}

// TimelineRequest describes a what-if scenario. StartDate accepts RFC 3339
// or YYYY-MM-DD and defaults to three months ago.
type TimelineRequest struct {
	Kind      model.ScenarioKind `json:"kind"`
	Amount    decimal.Decimal    `json:"amount"`
	Category  string             `json:"category,omitempty"`
	StartDate string             `json:"start_date,omitempty"`
}

// Scenario converts the request into a validated scenario.
func (r TimelineRequest) Scenario(now time.Time) (model.Scenario, error) {
	sc := model.Scenario{Kind: r.Kind, Amount: r.Amount, Category: r.Category}
	if r.StartDate == "" {
		sc.StartDate = engine.DefaultScenarioStart(now)
	} else {
		start, err := source.ParseDate(r.StartDate)
		if err != nil {
			return sc, fmt.Errorf("%w: start_date: %v", model.ErrInvalid, err)
		}
		sc.StartDate = start
	}
	if err := sc.Validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

// TimeMachine simulates the alternate timeline for a scenario.
func (s *Service) TimeMachine(ctx context.Context, userID string, req TimelineRequest) (*model.Timeline, error) {
	snap, err := s.Snapshot(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	sc, err := req.Scenario(snap.Now)
	if err != nil {
		return nil, err
	}
	tl := engine.SimulateTimeline(snap.Transactions, snap.Accounts, sc, snap.Now)
	return &tl, nil
}

// ProfileReport is the stored profile plus freshly computed behavior.
type ProfileReport struct {
	Profile    *model.SpendingProfile      `json:"profile"`
	HasProfile bool                        `json:"has_profile"`
	Behavior   model.Behavior              `json:"behavior"`
	Questions  []model.PersonalityQuestion `json:"questions"`
}

// Profile returns the user's profile, if any, and their current behavior.
func (s *Service) Profile(ctx context.Context, userID string) (*ProfileReport, error) {
	snap, err := s.Snapshot(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return profileReport(snap), nil
}

func profileReport(snap *pipeline.Snapshot) *ProfileReport {
	return &ProfileReport{
		Profile:    snap.Profile,
		HasProfile: snap.Profile != nil,
		Behavior:   engine.AnalyzeBehavior(snap.Transactions, snap.Profile, snap.Now),
		Questions:  model.PersonalityQuestions,
	}
}

// SaveProfile merges quiz answers into the profile and refreshes its
// behavior fields from the full ledger. The stored regret threshold is
// always recomputed from history, never carried over.
func (s *Service) SaveProfile(ctx context.Context, userID string, answers model.ProfileAnswers) (*model.SpendingProfile, error) {
	snap, err := s.Snapshot(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	behavior := engine.AnalyzeBehavior(snap.Transactions, nil, snap.Now)
	return s.store.SaveProfile(ctx, userID, answers, behavior, snap.Now)
}

// Ask asks the advisor about a proposed purchase and counts the verdict.
func (s *Service) Ask(ctx context.Context, userID, question string, amount decimal.Decimal) (*model.Decision, error) {
	if question == "" || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: question and a positive amount are required", model.ErrInvalid)
	}
	snap, err := s.Snapshot(ctx, userID, AdviceTransactions)
	if err != nil {
		return nil, err
	}
	if snap.Profile == nil {
		return nil, ErrNoProfile
	}

	d := s.advisor.Advise(question, amount, snap.Profile, snap.Transactions, snap.Now)
	if err := s.store.RecordDecision(ctx, userID, d.Verdict); err != nil {
		return nil, fmt.Errorf("recording decision: %w", err)
	}
	return &d, nil
}

// SummaryReport is a period overview of the user's ledger.
type SummaryReport struct {
	UserID       string                `json:"user_id"`
	Days         int                   `json:"days"`
	Since        time.Time             `json:"since"`
	Until        time.Time             `json:"until"`
	Stats        model.SummaryStats    `json:"stats"`
	Categories   []model.CategoryStats `json:"categories"`
	TotalBalance decimal.Decimal       `json:"total_balance"`
	Savings      decimal.Decimal       `json:"savings"`
	Budget       *model.Budget         `json:"budget,omitempty"`
	BudgetUsage  decimal.Decimal       `json:"budget_usage"`
	SafeToSave   decimal.Decimal       `json:"safe_to_save"`
	Insights     []model.Insight       `json:"insights"`
}

// Summary aggregates the user's activity over the past days.
func (s *Service) Summary(ctx context.Context, userID string, days int) (*SummaryReport, error) {
	days, err := s.days(days)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	insights, err := s.store.ListInsights(ctx, userID, recentInsights)
	if err != nil {
		return nil, fmt.Errorf("loading insights: %w", err)
	}
	return summaryReport(snap, days, insights), nil
}

func summaryReport(snap *pipeline.Snapshot, days int, insights []model.Insight) *SummaryReport {
	until := snap.Now
	since := until.AddDate(0, 0, -days)
	report := &SummaryReport{
		UserID:       snap.UserID,
		Days:         days,
		Since:        since,
		Until:        until,
		Stats:        pipeline.Aggregate(snap.Transactions, since, until),
		Categories:   pipeline.AggregateCategories(snap.Transactions, since, until),
		TotalBalance: snap.TotalBalance(),
		Savings:      model.SavingsBalance(snap.Accounts),
		Budget:       snap.Budget,
		BudgetUsage:  decimal.Zero,
		SafeToSave:   engine.SafeToSave(snap.Transactions, snap.Accounts, snap.Budget, snap.Now),
		Insights:     insights,
	}
	if snap.Budget != nil {
		report.BudgetUsage = snap.Budget.UsagePercent(engine.MonthExpenses(snap.Transactions, snap.Now))
	}
	return report
}

// Dashboard is every period report for one user, computed from a single
// snapshot so all of them describe the same instant.
type Dashboard struct {
	Snapshot *pipeline.Snapshot `json:"-"`
	Summary  *SummaryReport     `json:"summary"`
	History  *HistoryReport     `json:"history"`
	Forecast *ForecastReport    `json:"forecast"`
	Profile  *ProfileReport     `json:"profile"`
}

// Dashboard loads the user's ledger once and builds the summary, history,
// forecast and profile reports from it.
func (s *Service) Dashboard(ctx context.Context, userID string, days int) (*Dashboard, error) {
	days, err := s.days(days)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	insights, err := s.store.ListInsights(ctx, userID, recentInsights)
	if err != nil {
		return nil, fmt.Errorf("loading insights: %w", err)
	}
	return &Dashboard{
		Snapshot: snap,
		Summary:  summaryReport(snap, days, insights),
		History:  historyReport(snap, days),
		Forecast: forecastReport(snap, days),
		Profile:  profileReport(snap),
	}, nil
}

// ErrGuardianDisabled is returned by Guardian when no runner is configured.
var ErrGuardianDisabled = errors.New("guardian is disabled")

// Guardian runs the Safety Guardian for one user.
func (s *Service) Guardian(ctx context.Context, userID string) (*guardian.Result, error) {
	if s.runner == nil {
		return nil, ErrGuardianDisabled
	}
	return s.runner.Run(ctx, userID)
}

// Users lists every user in the store.
func (s *Service) Users(ctx context.Context) ([]string, error) {
	return s.store.ListUsers(ctx)
}
