package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/tui/components"
	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.data.summary
	stats := s.Stats
	var b strings.Builder

	// Row 1: headline metrics
	netDelta := cli.FormatDelta(stats.Net) + " net"
	metrics := []components.Metric{
		{Label: "Balance", Value: cli.FormatMoneyWhole(s.TotalBalance), Delta: "savings " + cli.FormatCompact(s.Savings)},
		{Label: "Income", Value: cli.FormatMoneyWhole(stats.IncomeTotal), Delta: cli.FormatCompact(stats.IncomePerDay) + "/day"},
		{Label: "Spent", Value: cli.FormatMoneyWhole(stats.ExpenseTotal), Delta: netDelta, DeltaColor: t.Signed(stats.Net.Sign())},
		{Label: "Safe to Save", Value: cli.FormatMoneyWhole(s.SafeToSave), Delta: "this month"},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: balance history chart
	if pts := a.data.history.Points; len(pts) > 0 {
		vals := make([]float64, len(pts))
		dates := make([]time.Time, len(pts))
		for i, p := range pts {
			vals[i] = p.Balance.InexactFloat64()
			dates[i] = p.Date
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Balance History (%dd)", a.data.history.Days),
			components.BarChart(vals, chartDateLabels(dates), t.Blue, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: budget + insights
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Monthly Budget", a.renderBudget(cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Recent Insights", a.renderInsights(), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Monthly Budget", a.renderBudget(halves[0]), halves[0]),
			components.ContentCard("Recent Insights", a.renderInsights(), halves[1]),
		}))
	}

	return b.String()
}

func (a App) renderBudget(outerWidth int) string {
	t := theme.Active
	s := a.data.summary
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	if s.Budget == nil || !s.Budget.Amount.IsPositive() {
		return mutedStyle.Render("No budget set. Import a budget record to enable the guardian.")
	}

	usage := s.BudgetUsage.InexactFloat64()
	barW := max(components.CardInnerWidth(outerWidth)-16, 10)

	var b strings.Builder
	b.WriteString(components.BudgetBar("Used", usage, a.lockPercent, 6, barW))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Budget  "))
	b.WriteString(valueStyle.Render(cli.FormatMoneyWhole(s.Budget.Amount)))
	if s.Budget.IsLocked {
		b.WriteString(mutedStyle.Render("  "))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true).Render("LOCKED"))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Guardian locks above %.0f%%", a.lockPercent)))
	return b.String()
}

func (a App) renderInsights() string {
	t := theme.Active
	s := a.data.summary
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	agoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(s.Insights) == 0 {
		return mutedStyle.Render("Nothing yet. Press g to run the guardian.")
	}

	var b strings.Builder
	for i, in := range s.Insights {
		if i > 0 {
			b.WriteString("\n")
		}
		color := t.Green
		if in.Type == model.InsightBudget {
			color = t.Orange
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render("● "))
		b.WriteString(titleStyle.Render(in.Title))
		b.WriteString(agoStyle.Render("  " + cli.FormatAgo(in.CreatedAt, s.Until)))
	}
	return b.String()
}
