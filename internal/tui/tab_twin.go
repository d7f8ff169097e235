package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/service"
	"github.com/theirongolddev/welth/internal/tui/components"
	"github.com/theirongolddev/welth/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderTwinTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.renderTwinForm(cw))
	b.WriteString("\n")
	b.WriteString(a.renderTwinAnswer(cw))
	b.WriteString("\n")
	b.WriteString(a.renderBehaviorCard(cw))
	return b.String()
}

func (a App) renderTwinForm(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder
	b.WriteString(labelStyle.Render("Question  "))
	b.WriteString(a.twin.question.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Amount    " + cli.Currency))
	b.WriteString(a.twin.amount.View())
	b.WriteString("\n\n")
	if a.twin.err != nil && !errors.Is(a.twin.err, service.ErrNoProfile) {
		b.WriteString(errStyle.Render(a.twin.err.Error()))
		b.WriteString("\n")
	}
	if a.twin.editing {
		b.WriteString(hintStyle.Render("[tab] next field  [enter] ask  [esc] done"))
		return components.FocusCard("Ask Your Twin", b.String(), cw)
	}
	b.WriteString(hintStyle.Render("[enter] start typing"))
	return components.ContentCard("Ask Your Twin", b.String(), cw)
}

func (a App) renderTwinAnswer(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	switch {
	case a.twin.asking:
		return components.ContentCard("Verdict", a.spinner.View()+mutedStyle.Render(" Thinking it over..."), cw)
	case errors.Is(a.twin.err, service.ErrNoProfile):
		return components.ContentCard("Verdict",
			lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).
				Render("Your twin needs to know you first. Run `welth profile quiz`."), cw)
	case a.twin.decision == nil:
		return components.ContentCard("Verdict",
			mutedStyle.Render("Ask about a purchase and your twin will weigh it against your history."), cw)
	}

	d := a.twin.decision
	innerW := components.CardInnerWidth(cw)
	verdictStyle := lipgloss.NewStyle().Foreground(verdictColor(d.Verdict)).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW)

	var b strings.Builder
	b.WriteString(mutedStyle.Render(truncStr(a.twin.asked, innerW)))
	b.WriteString("\n\n")
	b.WriteString(verdictStyle.Render(string(d.Verdict)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d%% confident  %d similar purchases", d.Confidence, d.SimilarPurchases)))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(d.Reasoning))
	b.WriteString("\n\n")
	b.WriteString(components.ProgressBar(float64(d.Confidence)/100, min(innerW, 40)))

	return components.FocusCard("Verdict", b.String(), cw)
}

func verdictColor(v model.Verdict) lipgloss.Color {
	t := theme.Active
	switch v {
	case model.Approve:
		return t.Green
	case model.Wait:
		return t.Red
	default:
		return t.Yellow
	}
}

func (a App) renderBehaviorCard(cw int) string {
	t := theme.Active
	p := a.data.profile
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	beh := p.Behavior
	triggers := "none"
	if len(beh.EmotionalTriggers) > 0 {
		triggers = strings.Join(beh.EmotionalTriggers, ", ")
	}

	rows := [][2]string{
		{"Risk", string(beh.RiskTolerance)},
		{"Style", string(beh.SpendingStyle)},
		{"Regret above", cli.FormatMoneyWhole(beh.RegretThreshold)},
		{"Triggers", triggers},
	}
	if p.HasProfile {
		rows = append(rows, [2]string{"Decisions", fmt.Sprintf("%d approved, %d told to wait",
			p.Profile.ApprovedDecisions, p.Profile.RejectedDecisions)})
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-13s", r[0])))
		b.WriteString(valueStyle.Render(r[1]))
	}
	return components.ContentCard("Your Spending Behavior", b.String(), cw)
}
