package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/welth/internal/guardian"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/pipeline"
	"github.com/theirongolddev/welth/internal/service"
	"github.com/theirongolddev/welth/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "welth.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	acct := model.Account{Name: "Main", Type: model.Current, Balance: decimal.NewFromInt(10000), IsDefault: true}
	if err := st.UpsertAccount(ctx, "alice", &acct); err != nil {
		t.Fatal(err)
	}
	if err := st.SetBudget(ctx, "alice", model.Budget{Amount: decimal.NewFromInt(20000)}); err != nil {
		t.Fatal(err)
	}
	txns := []model.Transaction{
		{Date: testNow.AddDate(0, 0, -2), Amount: decimal.NewFromInt(3000), Type: model.Income},
		{Date: testNow.AddDate(0, 0, -1), Amount: decimal.NewFromInt(600), Type: model.Expense, Category: model.StringPtr("Food")},
		{Date: testNow.AddDate(0, 0, -5), Amount: decimal.NewFromInt(900), Type: model.Expense, Category: model.StringPtr("Travel")},
	}
	for i := range txns {
		if err := st.AddTransaction(ctx, "alice", &txns[i]); err != nil {
			t.Fatal(err)
		}
	}

	clock := func() time.Time { return testNow }
	runner := guardian.NewRunner(st, nil, nil, guardian.WithClock(clock))
	return service.New(st, runner, service.WithClock(clock))
}

func loadedApp(t *testing.T) App {
	t.Helper()
	svc := newTestService(t)
	a := NewApp(svc, "alice", 30, 80)
	msg := loadDataCmd(svc, "alice", 30)()
	m, _ := a.Update(msg)
	m, _ = m.(App).Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return m.(App)
}

func TestLoadDashboard(t *testing.T) {
	svc := newTestService(t)
	d, err := loadDashboard(context.Background(), svc, "alice", 7)
	if err != nil {
		t.Fatalf("loadDashboard: %v", err)
	}
	if len(d.history.Points) != 8 {
		t.Fatalf("len(history) = %d, want 8", len(d.history.Points))
	}
	if len(d.forecast.Points) != 8 {
		t.Fatalf("len(forecast) = %d, want 8", len(d.forecast.Points))
	}
	if want := decimal.NewFromInt(1500); !d.summary.Stats.ExpenseTotal.Equal(want) {
		t.Fatalf("ExpenseTotal = %s, want %s", d.summary.Stats.ExpenseTotal, want)
	}
	// Only months with activity are listed.
	if len(d.months) != 1 {
		t.Fatalf("len(months) = %d, want 1", len(d.months))
	}
}

func TestDataLoadedBuildsScenarios(t *testing.T) {
	a := loadedApp(t)
	if !a.loaded {
		t.Fatalf("loaded = false, loadErr = %v", a.loadErr)
	}
	var skips []string
	for _, o := range a.tm.options {
		if o.Request.Kind == model.AvoidCategory {
			skips = append(skips, o.Request.Category)
		}
	}
	if len(skips) != 2 || skips[0] != "Travel" || skips[1] != "Food" {
		t.Fatalf("skip scenarios = %v, want [Travel Food]", skips)
	}
}

func TestScenarioOptionsSkipsUncategorized(t *testing.T) {
	cats := []model.CategoryStats{
		{Category: pipeline.Uncategorized},
		{Category: "Rent"},
	}
	opts := scenarioOptions(cats)
	for _, o := range opts {
		if o.Request.Category == pipeline.Uncategorized {
			t.Fatalf("scenario %q targets uncategorized spending", o.Label)
		}
	}
	if last := opts[len(opts)-1]; last.Label != "Skip Rent" {
		t.Fatalf("last label = %q, want %q", last.Label, "Skip Rent")
	}
}

func TestKeySwitchesTabs(t *testing.T) {
	a := loadedApp(t)

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if got := m.(App).activeTab; got != tabForecast {
		t.Fatalf("activeTab = %d, want %d", got, tabForecast)
	}
	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.(App).activeTab; got != tabTimeMachine {
		t.Fatalf("activeTab = %d, want %d", got, tabTimeMachine)
	}
	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.(App).activeTab; got != tabTwin {
		t.Fatalf("activeTab = %d, want %d after wrapping", got, tabTwin)
	}
}

func TestTimeMachineCursorAndRun(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = tabTimeMachine

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if got := m.(App).tm.cursor; got != 0 {
		t.Fatalf("cursor = %d, want 0", got)
	}
	m, _ = m.(App).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if got := m.(App).tm.cursor; got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}

	m, cmd := m.(App).Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.(App).tm.running || cmd == nil {
		t.Fatal("enter should start a timeline run")
	}
	m, _ = m.(App).Update(cmd())
	got := m.(App).tm
	if got.running || got.err != nil || got.result == nil {
		t.Fatalf("tm = running %v err %v result %v", got.running, got.err, got.result)
	}
	if got.label != got.options[1].Label {
		t.Fatalf("label = %q, want %q", got.label, got.options[1].Label)
	}
}

func TestTwinRejectsBadAmount(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = tabTwin
	a.twin.question.SetValue("New phone?")
	a.twin.amount.SetValue("0")
	a.twin.editing = true
	a.twin.focus = 1

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := m.(App)
	if cmd != nil || got.twin.asking {
		t.Fatal("zero amount should not be submitted")
	}
	if got.twin.err == nil || !strings.Contains(got.twin.err.Error(), "positive") {
		t.Fatalf("err = %v, want positive amount error", got.twin.err)
	}
}

func TestTwinWithoutProfile(t *testing.T) {
	a := loadedApp(t)
	a.twin.question.SetValue("New phone?")
	a.twin.amount.SetValue("2500")
	a.twin.editing = true
	a.twin.focus = 1

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.(App).twin.asking {
		t.Fatal("valid question should be submitted")
	}
	m, _ = m.(App).Update(cmd())
	if err := m.(App).twin.err; err != service.ErrNoProfile {
		t.Fatalf("err = %v, want ErrNoProfile", err)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	for i := range 5 {
		a.activeTab = i
		out := a.View()
		if lipgloss.Height(out) != a.height {
			t.Fatalf("tab %d: height = %d, want %d", i, lipgloss.Height(out), a.height)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := App{width: 60, height: 20}
	if out := a.View(); !strings.Contains(out, "too narrow") {
		t.Fatalf("View() = %q, want too narrow message", out)
	}
}
