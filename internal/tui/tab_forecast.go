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

func (a App) renderForecastTab(cw int) string {
	t := theme.Active
	f := a.data.forecast
	var b strings.Builder

	var endBalance, lowest string
	if n := len(f.Points); n > 0 {
		endBalance = cli.FormatMoneyWhole(f.Points[n-1].Predicted)
		low := f.Points[0]
		for _, p := range f.Points[1:] {
			if p.Predicted.LessThan(low.Predicted) {
				low = p
			}
		}
		lowest = fmt.Sprintf("%s on %s", cli.FormatCompact(low.Predicted), low.Date.Format("Jan 2"))
	}

	metrics := []components.Metric{
		{Label: "Income (30d)", Value: cli.FormatMoneyWhole(f.WindowIncome)},
		{Label: "Spent (30d)", Value: cli.FormatMoneyWhole(f.WindowExpense)},
		{Label: "Net per Day", Value: cli.FormatDelta(f.DailyNet), DeltaColor: t.Signed(f.DailyNet.Sign()), Delta: "trend"},
		{Label: fmt.Sprintf("In %dd", f.Days), Value: endBalance, Delta: "low " + lowest},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if len(f.Points) > 0 {
		vals := make([]float64, len(f.Points))
		dates := make([]time.Time, len(f.Points))
		negative := false
		for i, p := range f.Points {
			vals[i] = p.Predicted.InexactFloat64()
			dates[i] = p.Date
			if p.Predicted.IsNegative() {
				negative = true
			}
		}
		color := t.Signed(f.DailyNet.Sign())
		if f.DailyNet.IsZero() {
			color = t.Blue
		}
		chartH := 12
		if a.isCompactLayout() {
			chartH = 8
		}
		body := components.BarChart(vals, chartDateLabels(dates), color, components.CardInnerWidth(cw), chartH)
		if negative {
			body += "\n" + lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true).
				Render("Balance is projected to go negative at the current pace.")
		}
		b.WriteString(components.ContentCard(fmt.Sprintf("Projected Balance (%dd)", f.Days), body, cw))
		b.WriteString("\n")
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	saveBody := valueStyle.Render(cli.FormatMoney(f.SafeToSave)) +
		mutedStyle.Render("  can move to savings this month without touching your budget.")
	b.WriteString(components.ContentCard("Safe to Save", saveBody, cw))

	return b.String()
}
