package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/tui/components"
	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderTimeMachineTab(cw int) string {
	if a.isCompactLayout() {
		return a.renderScenarioList(cw) + "\n" + a.renderTimelineResult(cw)
	}
	widths := components.LayoutRow(cw, 3)
	listW := widths[0]
	resultW := cw - listW
	return components.CardRow([]string{
		a.renderScenarioList(listW),
		a.renderTimelineResult(resultW),
	})
}

func (a App) renderScenarioList(w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i, opt := range a.tm.options {
		label := truncStr(opt.Label, innerW-3)
		if i == a.tm.cursor {
			b.WriteString(markerStyle.Render(" ▸ "))
			b.WriteString(selectedStyle.Render(fmt.Sprintf("%-*s", innerW-3, label)))
		} else {
			b.WriteString(rowStyle.Render("   " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("[j/k] pick  [enter] run"))

	return components.FocusCard("What if...", b.String(), w)
}

func (a App) renderTimelineResult(w int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch {
	case a.tm.running:
		return components.ContentCard("Alternate Timeline", a.spinner.View()+mutedStyle.Render(" Replaying history..."), w)
	case a.tm.err != nil:
		return components.ContentCard("Alternate Timeline",
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.tm.err.Error()), w)
	case a.tm.result == nil:
		return components.ContentCard("Alternate Timeline",
			mutedStyle.Render("Pick a scenario and press enter to see where you would be today."), w)
	}

	tl := a.tm.result
	imp := tl.Impact
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	gainStyle := lipgloss.NewStyle().Foreground(t.Signed(imp.Difference.Sign())).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Italic(true)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-12s %14s %14s", "", "Reality", "Alternate")))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", "Balance")))
	b.WriteString(valueStyle.Render(fmt.Sprintf(" %14s %14s", cli.FormatMoneyWhole(tl.Current.Balance), cli.FormatMoneyWhole(tl.Alternate.Balance))))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", "Savings")))
	b.WriteString(valueStyle.Render(fmt.Sprintf(" %14s %14s", cli.FormatMoneyWhole(tl.Current.Savings), cli.FormatMoneyWhole(tl.Alternate.Savings))))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Difference  "))
	b.WriteString(gainStyle.Render(fmt.Sprintf("%s  (%s%%)", cli.FormatDelta(imp.Difference), imp.PercentageGain)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Over %d months", imp.MonthsPassed)))
	if imp.SavedAmount.IsPositive() {
		b.WriteString(labelStyle.Render("  saved "))
		b.WriteString(valueStyle.Render(cli.FormatMoneyWhole(imp.SavedAmount)))
	}
	if imp.AvoidedExpenses.IsPositive() {
		b.WriteString(labelStyle.Render("  avoided "))
		b.WriteString(valueStyle.Render(cli.FormatMoneyWhole(imp.AvoidedExpenses)))
	}
	b.WriteString("\n\n")
	b.WriteString(msgStyle.Render(truncStr(tl.Message, components.CardInnerWidth(w))))

	return components.ContentCard("Alternate Timeline: "+a.tm.label, b.String(), w)
}
