// Package notify delivers user-facing alerts raised by the guardian.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Alert is one notification addressed to a user.
type Alert struct {
	UserID  string    `json:"user_id"`
	Kind    string    `json:"kind"`
	Subject string    `json:"subject"`
	Action  string    `json:"action"`
	Reason  string    `json:"reason"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

// Sink delivers alerts.
type Sink interface {
	Send(ctx context.Context, a Alert) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, a Alert) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, a Alert) error { return f(ctx, a) }

// LogSink writes alerts to a zerolog logger.
type LogSink struct {
	Log zerolog.Logger
}

// Send logs the alert at info level.
func (s LogSink) Send(_ context.Context, a Alert) error {
	s.Log.Info().
		Str("user_id", a.UserID).
		Str("kind", a.Kind).
		Str("subject", a.Subject).
		Str("reason", a.Reason).
		Msg(a.Body)
	return nil
}

// Multi fans an alert out to every sink and joins their errors.
type Multi []Sink

// Send delivers to every sink even when an earlier one fails.
func (m Multi) Send(ctx context.Context, a Alert) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Send(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BudgetLocked builds the alert sent when the guardian locks a budget.
func BudgetLocked(userID string, usagePercent decimal.Decimal, at time.Time) Alert {
	return Alert{
		UserID:  userID,
		Kind:    model.InsightLockedBudget,
		Subject: "🛡️ Safety Guardian Alert - Budget Locked",
		Action:  "Budget Locked",
		Reason:  fmt.Sprintf("You've used %s%% of your monthly budget", usagePercent.StringFixed(1)),
		Body:    "To protect you from overspending, I've temporarily locked your budget. You can unlock it anytime from the dashboard.",
		SentAt:  at,
	}
}

// AutoSaved builds the alert sent after an automatic savings transfer.
func AutoSaved(userID string, amount decimal.Decimal, at time.Time) Alert {
	saved := "₹" + amount.StringFixed(0)
	return Alert{
		UserID:  userID,
		Kind:    model.InsightAutoSaved,
		Subject: "💰 Auto-Savings Success!",
		Action:  "Saved " + saved,
		Reason:  "Your finances are healthy",
		Body:    "I noticed you have some extra buffer, so I moved " + saved + " to your savings account. Keep up the great work!",
		SentAt:  at,
	}
}

// LockedMessage is the insight text for a locked budget.
func LockedMessage(usagePercent decimal.Decimal) string {
	return fmt.Sprintf("Safety Guardian locked your budget to protect you from overspending. You've used %s%% of your monthly budget.",
		usagePercent.StringFixed(1))
}

// AutoSavedMessage is the insight text for an automatic transfer.
func AutoSavedMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("Smart move! I automatically saved ₹%s to your savings account. Your finances are healthy enough to grow your savings.",
		amount.StringFixed(0))
}
