package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/tui/components"
	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCategoriesCard(cw int) string {
	t := theme.Active
	cats := a.data.summary.Categories

	innerW := components.CardInnerWidth(cw)
	fixedCols := 6 + 12 + 7 + 2 // Txns, Spent, Share, Trend
	gaps := 4
	nameW := max(innerW-fixedCols-gaps, 12)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spentStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	shareStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)

	catColors := []lipgloss.Color{t.Blue, t.Cyan, t.Yellow, t.Green, t.Accent}
	nameStyles := make([]lipgloss.Style, len(catColors))
	for i, color := range catColors {
		nameStyles[i] = lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	}

	if len(cats) == 0 {
		return components.ContentCard("Categories", mutedStyle.Render("No spending in this period."), cw)
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %6s %12s %7s %2s", nameW, "Category", "Txns", "Spent", "Share", "")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", min(innerW, nameW+fixedCols+gaps))))
	body.WriteString("\n")

	for i, c := range cats {
		body.WriteString(nameStyles[i%len(catColors)].Render(fmt.Sprintf("%-*s", nameW, truncStr(c.Category, nameW))))
		body.WriteString(rowStyle.Render(fmt.Sprintf(" %6d", c.Transactions)))
		body.WriteString(spentStyle.Render(fmt.Sprintf(" %12s", cli.FormatMoneyWhole(c.Expense))))
		body.WriteString(shareStyle.Render(fmt.Sprintf(" %6.1f%%", c.SharePercent)))
		body.WriteString(renderTrend(c.TrendDirection))
		body.WriteString("\n")
	}

	return components.ContentCard(fmt.Sprintf("Categories (%dd)", a.data.summary.Days), body.String(), cw)
}

// renderTrend marks spending going up red and down green.
func renderTrend(dir int) string {
	t := theme.Active
	style := lipgloss.NewStyle().Background(t.Surface)
	switch {
	case dir > 0:
		return style.Foreground(t.Red).Render("  ▲")
	case dir < 0:
		return style.Foreground(t.Green).Render("  ▼")
	default:
		return style.Foreground(t.TextDim).Render("  ·")
	}
}

func (a App) renderMonthsCard(cw int) string {
	t := theme.Active
	months := a.data.months

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	monthStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	incomeStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	expenseStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-9s %11s %11s %11s", "Month", "Income", "Spent", "Net")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", 45)))
	body.WriteString("\n")
	for _, m := range months {
		body.WriteString(monthStyle.Render(fmt.Sprintf("%-9s", m.Month.Format("Jan 2006"))))
		body.WriteString(incomeStyle.Render(fmt.Sprintf(" %11s", cli.FormatCompact(m.Income))))
		body.WriteString(expenseStyle.Render(fmt.Sprintf(" %11s", cli.FormatCompact(m.Expense))))
		body.WriteString(lipgloss.NewStyle().Foreground(t.Signed(m.Net.Sign())).Background(t.Surface).
			Render(fmt.Sprintf(" %11s", cli.FormatCompact(m.Net))))
		body.WriteString("\n")
	}

	return components.ContentCard(fmt.Sprintf("Last %d Months", monthsShown), body.String(), cw)
}

func (a App) renderDailySpendCard(cw int) string {
	t := theme.Active
	days := a.data.daily
	if len(days) == 0 {
		return ""
	}

	// daily is most recent first; charts read left to right.
	vals := make([]float64, len(days))
	dates := make([]time.Time, len(days))
	for i, d := range days {
		j := len(days) - 1 - i
		vals[j] = d.Expense.InexactFloat64()
		dates[j] = d.Date
	}

	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	return components.ContentCard(
		"Daily Spending",
		components.BarChart(vals, chartDateLabels(dates), t.Orange, components.CardInnerWidth(cw), chartH),
		cw,
	)
}

func (a App) renderSpendingTab(cw int) string {
	var b strings.Builder
	if chart := a.renderDailySpendCard(cw); chart != "" {
		b.WriteString(chart)
		b.WriteString("\n")
	}

	if a.isCompactLayout() {
		b.WriteString(a.renderCategoriesCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderMonthsCard(cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderCategoriesCard(halves[0]),
		a.renderMonthsCard(halves[1]),
	}))
	return b.String()
}
