package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/guardian"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/store"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "welth.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	clock := func() time.Time { return testNow }
	runner := guardian.NewRunner(st, nil, nil, guardian.WithClock(clock))
	return New(st, runner, WithClock(clock)), st
}

func seed(t *testing.T, st *store.Store, user string) {
	t.Helper()
	ctx := context.Background()
	main := model.Account{Name: "Main", Type: model.Current, Balance: decimal.NewFromInt(10000), IsDefault: true}
	if err := st.UpsertAccount(ctx, user, &main); err != nil {
		t.Fatal(err)
	}
	if err := st.SetBudget(ctx, user, model.Budget{Amount: decimal.NewFromInt(20000)}); err != nil {
		t.Fatal(err)
	}
	txns := []model.Transaction{
		{Date: testNow.AddDate(0, 0, -2), Amount: decimal.NewFromInt(3000), Type: model.Income},
		{Date: testNow.AddDate(0, 0, -1), Amount: decimal.NewFromInt(600), Type: model.Expense, Category: model.StringPtr("Food")},
		{Date: testNow.AddDate(0, -2, 0), Amount: decimal.NewFromInt(1200), Type: model.Expense, Category: model.StringPtr("Travel")},
	}
	for i := range txns {
		if err := st.AddTransaction(ctx, user, &txns[i]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHistory(t *testing.T) {
	svc, st := newService(t)
	seed(t, st, "alice")

	rep, err := svc.History(context.Background(), "alice", 3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rep.Points) != 4 {
		t.Fatalf("len(Points) = %d, want 4", len(rep.Points))
	}
	// 3 days back: before the income and the food expense.
	if want := decimal.NewFromInt(7600); !rep.Points[0].Balance.Equal(want) {
		t.Errorf("Points[0] = %s, want %s", rep.Points[0].Balance, want)
	}
	if !rep.Points[3].Balance.Equal(rep.CurrentBalance) {
		t.Errorf("last point = %s, want current %s", rep.Points[3].Balance, rep.CurrentBalance)
	}
}

func TestDaysValidation(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.History(context.Background(), "alice", -1); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if _, err := svc.Forecast(context.Background(), "alice", MaxDays+1); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	rep, err := svc.Summary(context.Background(), "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Days != DefaultDays {
		t.Errorf("Days = %d, want %d", rep.Days, DefaultDays)
	}
}

func TestForecast(t *testing.T) {
	svc, st := newService(t)
	seed(t, st, "alice")

	rep, err := svc.Forecast(context.Background(), "alice", 30)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(rep.Points) != 31 {
		t.Fatalf("len(Points) = %d, want 31", len(rep.Points))
	}
	if !rep.Points[30].Predicted.Equal(decimal.NewFromInt(12400)) {
		t.Errorf("day 30 = %s, want 12400", rep.Points[30].Predicted)
	}
	if !rep.SafeToSave.Equal(decimal.NewFromInt(400)) {
		t.Errorf("SafeToSave = %s, want 400", rep.SafeToSave)
	}
}

func TestTimeMachineDefaultsStart(t *testing.T) {
	svc, st := newService(t)
	seed(t, st, "alice")

	tl, err := svc.TimeMachine(context.Background(), "alice", TimelineRequest{
		Kind:   model.ReduceSpending,
		Amount: decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("TimeMachine: %v", err)
	}
	if !tl.Impact.SavedAmount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("SavedAmount = %s, want 900", tl.Impact.SavedAmount)
	}
	if tl.Impact.MonthsPassed != 3 {
		t.Errorf("MonthsPassed = %d, want 3", tl.Impact.MonthsPassed)
	}

	_, err = svc.TimeMachine(context.Background(), "alice", TimelineRequest{Kind: model.SaveMonthly, StartDate: "yesterday"})
	if !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestAskRequiresProfileAndCountsVerdicts(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	seed(t, st, "alice")

	if _, err := svc.Ask(ctx, "alice", "Headphones", decimal.NewFromInt(2000)); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("err = %v, want ErrNoProfile", err)
	}

	happy := "headphones for the gym"
	if _, err := svc.SaveProfile(ctx, "alice", model.ProfileAnswers{HappyPurchase: &happy}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	d, err := svc.Ask(ctx, "alice", "Headphones", decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if d.Verdict != model.Approve {
		t.Fatalf("Verdict = %s, want APPROVE", d.Verdict)
	}

	rep, err := svc.Profile(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !rep.HasProfile || rep.Profile.ApprovedDecisions != 1 {
		t.Fatalf("profile = %+v", rep.Profile)
	}
	if len(rep.Questions) != 5 {
		t.Errorf("Questions = %d, want 5", len(rep.Questions))
	}

	if _, err := svc.Ask(ctx, "alice", "", decimal.NewFromInt(5)); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestSaveProfileRecomputesBehavior(t *testing.T) {
	svc, st := newService(t)
	seed(t, st, "alice")

	p, err := svc.SaveProfile(context.Background(), "alice", model.ProfileAnswers{})
	if err != nil {
		t.Fatal(err)
	}
	// Mean expense 900, threshold 1.5x.
	if !p.RegretThreshold.Equal(decimal.NewFromInt(1350)) {
		t.Errorf("RegretThreshold = %s, want 1350", p.RegretThreshold)
	}
	if len(p.EmotionalTriggers) != 2 || p.EmotionalTriggers[0] != "Travel" {
		t.Errorf("EmotionalTriggers = %v", p.EmotionalTriggers)
	}
}

func TestSummary(t *testing.T) {
	svc, st := newService(t)
	seed(t, st, "alice")

	rep, err := svc.Summary(context.Background(), "alice", 30)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if rep.Stats.Transactions != 2 {
		t.Errorf("Transactions = %d, want 2", rep.Stats.Transactions)
	}
	if !rep.BudgetUsage.Equal(decimal.NewFromInt(3)) {
		t.Errorf("BudgetUsage = %s, want 3", rep.BudgetUsage)
	}
	if len(rep.Categories) != 1 || rep.Categories[0].Category != "Food" {
		t.Errorf("Categories = %+v", rep.Categories)
	}
}

func TestGuardian(t *testing.T) {
	svc, st := newService(t)
	seed(t, st, "alice")

	res, err := svc.Guardian(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Guardian: %v", err)
	}
	if res.Action != engine.ActionAutoSave {
		t.Fatalf("Action = %s, want AUTO_SAVED", res.Action)
	}

	disabled := New(st, nil)
	if _, err := disabled.Guardian(context.Background(), "alice"); !errors.Is(err, ErrGuardianDisabled) {
		t.Fatalf("err = %v, want ErrGuardianDisabled", err)
	}
}

func TestDashboardReadsClockOnce(t *testing.T) {
	_, st := newService(t)
	seed(t, st, "alice")

	// Each read moves the clock a day forward; reports built from
	// separate reads would disagree about "now".
	calls := 0
	clock := func() time.Time {
		calls++
		return testNow.AddDate(0, 0, calls-1)
	}
	svc := New(st, nil, WithClock(clock))

	d, err := svc.Dashboard(context.Background(), "alice", 30)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if calls != 1 {
		t.Fatalf("clock reads = %d, want 1", calls)
	}
	if !d.Summary.Until.Equal(testNow) || !d.Snapshot.Now.Equal(testNow) {
		t.Errorf("Until = %v, Snapshot.Now = %v, want %v", d.Summary.Until, d.Snapshot.Now, testNow)
	}
	if len(d.History.Points) != 31 {
		t.Fatalf("len(History.Points) = %d, want 31", len(d.History.Points))
	}
	if last := d.History.Points[30].Balance; !last.Equal(d.Summary.TotalBalance) {
		t.Errorf("history end = %s, want %s", last, d.Summary.TotalBalance)
	}
	if d.Forecast.Days != 30 || d.Profile.HasProfile {
		t.Errorf("Forecast.Days = %d, HasProfile = %v", d.Forecast.Days, d.Profile.HasProfile)
	}
}
