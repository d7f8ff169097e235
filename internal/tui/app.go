// Package tui provides the interactive Bubble Tea dashboard for welth.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/guardian"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/service"
	"github.com/theirongolddev/welth/internal/tui/components"
	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// DataLoadedMsg is sent when the dashboard data finishes loading.
type DataLoadedMsg struct {
	data     *dashboard
	Err      error
	LoadTime time.Duration
}

// TimelineMsg carries a time machine result.
type TimelineMsg struct {
	Label    string
	Timeline *model.Timeline
	Err      error
}

// DecisionMsg carries the twin's verdict.
type DecisionMsg struct {
	Decision *model.Decision
	Err      error
}

// GuardianMsg carries the result of an on-demand guardian run.
type GuardianMsg struct {
	Result *guardian.Result
	Err    error
}

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabSpending
	tabForecast
	tabTimeMachine
	tabTwin
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	loadTimeout = 30 * time.Second
)

type timeMachineState struct {
	options []scenarioOption
	cursor  int
	label   string
	result  *model.Timeline
	running bool
	err     error
}

type twinState struct {
	question textinput.Model
	amount   textinput.Model
	focus    int // 0 question, 1 amount
	editing  bool
	asking   bool
	decision *model.Decision
	asked    string
	err      error
}

// App is the root Bubble Tea model.
type App struct {
	svc         *service.Service
	user        string
	days        int
	lockPercent float64

	data        *dashboard
	loaded      bool
	loadErr     error
	loadTime    time.Duration
	lastRefresh time.Time
	refreshing  bool

	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model
	note      string
	guarding  bool

	tm   timeMachineState
	twin twinState
}

// NewApp creates the dashboard for one user.
func NewApp(svc *service.Service, user string, days, lockPercent int) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if lockPercent <= 0 {
		lockPercent = engine.DefaultLockPercent
	}

	return App{
		svc:         svc,
		user:        user,
		days:        days,
		lockPercent: float64(lockPercent),
		spinner:     sp,
		twin:        newTwinState(),
	}
}

func newTwinState() twinState {
	q := textinput.New()
	q.Placeholder = "Should I buy new headphones?"
	q.CharLimit = 200
	q.Width = 50

	amt := textinput.New()
	amt.Placeholder = "2500"
	amt.CharLimit = 16
	amt.Width = 16
	amt.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := decimal.NewFromString(s)
		return err
	}

	return twinState{question: q, amount: amt}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		loadDataCmd(a.svc, a.user, a.days),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.refreshing = false
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			a.loadErr = msg.Err
			if !a.loaded {
				return a, nil
			}
			a.note = "Refresh failed: " + msg.Err.Error()
			return a, nil
		}
		a.loaded = true
		a.loadErr = nil
		a.data = msg.data
		a.tm.options = scenarioOptions(a.data.summary.Categories)
		if a.tm.cursor >= len(a.tm.options) {
			a.tm.cursor = max(len(a.tm.options)-1, 0)
		}
		return a, nil

	case TimelineMsg:
		a.tm.running = false
		a.tm.err = msg.Err
		if msg.Err == nil {
			a.tm.result = msg.Timeline
			a.tm.label = msg.Label
		}
		return a, nil

	case DecisionMsg:
		a.twin.asking = false
		a.twin.err = msg.Err
		if msg.Err != nil {
			return a, nil
		}
		a.twin.decision = msg.Decision
		// Decision counters changed; pick them up quietly.
		a.refreshing = true
		return a, loadDataCmd(a.svc, a.user, a.days)

	case GuardianMsg:
		a.guarding = false
		if msg.Err != nil {
			a.note = "Guardian: " + msg.Err.Error()
			return a, nil
		}
		a.note = guardianNote(msg.Result)
		a.refreshing = true
		return a, loadDataCmd(a.svc, a.user, a.days)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.twin.editing {
		return a.updateTwinInput(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabTimeMachine && a.tm.cursor > 0 {
			a.tm.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabTimeMachine && a.tm.cursor < len(a.tm.options)-1 {
			a.tm.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.setTab(tab)
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		if key == "q" || key == "esc" {
			return a, tea.Quit
		}
		return a, nil
	}

	if a.twin.editing {
		return a.updateTwinInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabTimeMachine:
		switch key {
		case "j", "down":
			if a.tm.cursor < len(a.tm.options)-1 {
				a.tm.cursor++
			}
			return a, nil
		case "k", "up":
			if a.tm.cursor > 0 {
				a.tm.cursor--
			}
			return a, nil
		case "enter":
			if a.tm.running || len(a.tm.options) == 0 {
				return a, nil
			}
			a.tm.running = true
			return a, timelineCmd(a.svc, a.user, a.tm.options[a.tm.cursor])
		}
	case tabTwin:
		if key == "enter" || key == "i" {
			return a.startTwinEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadDataCmd(a.svc, a.user, a.days)
		}
		return a, nil
	case "g":
		if !a.guarding {
			a.guarding = true
			a.note = ""
			return a, guardianCmd(a.svc, a.user)
		}
		return a, nil
	case "left", "shift+tab":
		a.setTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		return a, nil
	case "right", "tab":
		a.setTab((a.activeTab + 1) % len(components.Tabs))
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.setTab(idx)
		}
	}
	return a, nil
}

func (a *App) setTab(idx int) {
	a.activeTab = idx
}

func (a App) startTwinEdit() (tea.Model, tea.Cmd) {
	a.twin.editing = true
	a.twin.focus = 0
	a.twin.amount.Blur()
	return a, a.twin.question.Focus()
}

// updateTwinInput handles keys while the twin form has focus.
func (a App) updateTwinInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			a.twin.editing = false
			a.twin.question.Blur()
			a.twin.amount.Blur()
			return a, nil
		case "tab", "shift+tab", "up", "down":
			return a.switchTwinFocus()
		case "enter":
			if a.twin.focus == 0 {
				return a.switchTwinFocus()
			}
			return a.submitTwin()
		}
	}

	var cmd tea.Cmd
	if a.twin.focus == 0 {
		a.twin.question, cmd = a.twin.question.Update(msg)
	} else {
		a.twin.amount, cmd = a.twin.amount.Update(msg)
	}
	return a, cmd
}

func (a App) switchTwinFocus() (tea.Model, tea.Cmd) {
	if a.twin.focus == 0 {
		a.twin.focus = 1
		a.twin.question.Blur()
		return a, a.twin.amount.Focus()
	}
	a.twin.focus = 0
	a.twin.amount.Blur()
	return a, a.twin.question.Focus()
}

func (a App) submitTwin() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(a.twin.question.Value())
	amount, err := decimal.NewFromString(strings.TrimSpace(a.twin.amount.Value()))
	switch {
	case question == "":
		a.twin.err = errors.New("ask a question first")
		return a, nil
	case err != nil || !amount.IsPositive():
		a.twin.err = errors.New("enter a positive amount")
		return a, nil
	}

	a.twin.err = nil
	a.twin.editing = false
	a.twin.asking = true
	a.twin.asked = fmt.Sprintf("%s (%s)", question, cli.FormatMoney(amount))
	a.twin.question.Blur()
	a.twin.amount.Blur()
	return a, askCmd(a.svc, a.user, question, amount)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  welth needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)
	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	errStyle := lipgloss.NewStyle().
		Foreground(t.Red).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ welth"))
	b.WriteString(subtitleStyle.Render(" · " + a.user))
	b.WriteString("\n\n")
	if a.loadErr != nil {
		b.WriteString(errStyle.Render("Could not load ledger: " + a.loadErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("Press q to quit"))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading ledger..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o s f t a", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Pick a scenario"},
		}},
		{"Actions", [][2]string{
			{"Enter", "Run scenario / Ask twin"},
			{"Tab", "Switch twin field"},
			{"Esc", "Leave twin form"},
			{"g", "Run Safety Guardian"},
			{"r", "Refresh data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	filterStr := pillStyle.Render(" ") +
		accentStyle.Render(a.user) +
		pillStyle.Render(" │ ") +
		accentStyle.Render(fmt.Sprintf("%dd", a.data.summary.Days))
	if b := a.data.summary.Budget; b != nil && b.IsLocked {
		filterStr += pillStyle.Render(" │ ") +
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true).Render("BUDGET LOCKED")
	}
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	note := a.note
	if a.refreshing || a.guarding {
		note = a.spinner.View() + " working..."
	}
	statusBar := components.RenderStatusBar(w, note, "Data: "+cli.FormatAgo(a.lastRefresh, time.Now()))

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabSpending:
		content = a.renderSpendingTab(cw)
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabTimeMachine:
		content = a.renderTimeMachineTab(cw)
	case tabTwin:
		content = a.renderTwinTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func loadDataCmd(svc *service.Service, user string, days int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		d, err := loadDashboard(ctx, svc, user, days)
		return DataLoadedMsg{data: d, Err: err, LoadTime: time.Since(start)}
	}
}

func timelineCmd(svc *service.Service, user string, opt scenarioOption) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		tl, err := svc.TimeMachine(ctx, user, opt.Request)
		return TimelineMsg{Label: opt.Label, Timeline: tl, Err: err}
	}
}

func askCmd(svc *service.Service, user, question string, amount decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		d, err := svc.Ask(ctx, user, question, amount)
		return DecisionMsg{Decision: d, Err: err}
	}
}

func guardianCmd(svc *service.Service, user string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		res, err := svc.Guardian(ctx, user)
		return GuardianMsg{Result: res, Err: err}
	}
}

func guardianNote(res *guardian.Result) string {
	switch res.Action {
	case engine.ActionLockBudget:
		return "Guardian locked your budget at " + cli.FormatPercent(res.Stats.BudgetUsage)
	case engine.ActionAutoSave:
		return "Guardian saved " + cli.FormatMoney(res.Amount)
	default:
		return "Guardian: nothing to do"
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

// chartDateLabels builds compact X-axis labels for an oldest-first date
// series: month names at the start and at month boundaries, day numbers
// elsewhere.
func chartDateLabels(dates []time.Time) []string {
	labels := make([]string, len(dates))
	prevMonth := time.Month(0)
	for i, dt := range dates {
		switch {
		case i == 0 || (dt.Month() != prevMonth && i != len(dates)-1):
			labels[i] = dt.Format("Jan")
		default:
			labels[i] = strconv.Itoa(dt.Day())
		}
		prevMonth = dt.Month()
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
