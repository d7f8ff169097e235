// Package guardian runs the Safety Guardian for a user: it evaluates the
// ledger, then locks the budget or sweeps a safe amount into savings,
// leaving an insight and sending an alert.
package guardian

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/lock"
	"github.com/theirongolddev/welth/internal/logger"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/notify"
	"github.com/theirongolddev/welth/internal/pipeline"
	"github.com/theirongolddev/welth/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RecentTransactions is how many of the newest transactions a run reads.
const RecentTransactions = 30

// LockTTL bounds how long a crashed run can hold a user's lock.
const LockTTL = 30 * time.Second

// Store is the ledger access a run needs.
type Store interface {
	pipeline.LedgerReader
	SetBudgetLocked(ctx context.Context, userID string, locked bool) error
	TransferToSavings(ctx context.Context, userID string, amount decimal.Decimal, at time.Time) (*store.Transfer, error)
	AddInsight(ctx context.Context, in *model.Insight) error
}

// Result reports what a run did.
type Result struct {
	UserID    string                `json:"user_id"`
	Action    engine.GuardianAction `json:"action"`
	Amount    decimal.Decimal       `json:"amount"`
	Reason    string                `json:"reason,omitempty"`
	InsightID string                `json:"insight_id,omitempty"`
	Stats     engine.GuardianStats  `json:"stats"`
	Transfer  *store.Transfer       `json:"transfer,omitempty"`
	At        time.Time             `json:"at"`
}

// Runner executes guardian runs. At most one run per user proceeds at a
// time; a concurrent run fails with lock.ErrLocked.
type Runner struct {
	store       Store
	locker      lock.Locker
	sink        notify.Sink
	lockPercent int
	log         zerolog.Logger
	now         func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLockPercent sets the budget usage above which the budget is locked.
func WithLockPercent(p int) Option { return func(r *Runner) { r.lockPercent = p } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(r *Runner) { r.log = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }

// NewRunner creates a Runner. A nil locker uses an in-memory one and a nil
// sink drops alerts.
func NewRunner(st Store, locker lock.Locker, sink notify.Sink, opts ...Option) *Runner {
	r := &Runner{
		store:       st,
		locker:      locker,
		sink:        sink,
		lockPercent: engine.DefaultLockPercent,
		log:         zerolog.Nop(),
		now:         time.Now,
	}
	if r.locker == nil {
		r.locker = lock.NewMemory()
	}
	if r.sink == nil {
		r.sink = notify.Multi{}
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run evaluates one user and applies the decided action.
func (r *Runner) Run(ctx context.Context, userID string) (*Result, error) {
	unlock, err := r.locker.Acquire(ctx, lock.UserKey(userID), LockTTL)
	if err != nil {
		return nil, fmt.Errorf("guardian for %s: %w", userID, err)
	}
	log := logger.ForUser(r.log, userID)
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("releasing guardian lock")
		}
	}()

	now := r.now()
	snap, err := pipeline.LoadSnapshot(ctx, r.store, userID, RecentTransactions, now)
	if err != nil {
		return nil, err
	}

	plan := engine.EvaluateGuardian(snap.Transactions, snap.Accounts, snap.Budget, r.lockPercent, now)
	result := &Result{
		UserID: userID,
		Action: engine.ActionNone,
		Amount: decimal.Zero,
		Stats:  plan.Stats,
		At:     now,
	}

	switch plan.Action {
	case engine.ActionLockBudget:
		err = r.lockBudget(ctx, result, plan, now)
	case engine.ActionAutoSave:
		err = r.autoSave(ctx, result, plan, now)
	}
	if err != nil {
		return nil, err
	}

	if result.Action != engine.ActionNone {
		actionLog := logger.WithFields(log, map[string]any{
			"action": string(result.Action),
			"amount": result.Amount.String(),
		})
		actionLog.Info().Msg(result.Reason)
	}
	return result, nil
}

func (r *Runner) lockBudget(ctx context.Context, result *Result, plan engine.GuardianPlan, now time.Time) error {
	if err := r.store.SetBudgetLocked(ctx, result.UserID, true); err != nil {
		return fmt.Errorf("locking budget: %w", err)
	}
	usage := plan.Stats.BudgetUsage

	in := &model.Insight{
		UserID:    result.UserID,
		Type:      model.InsightBudget,
		Category:  model.InsightLockedBudget,
		Title:     "Budget Locked",
		Message:   notify.LockedMessage(usage),
		CreatedAt: now,
	}
	if err := r.store.AddInsight(ctx, in); err != nil {
		return fmt.Errorf("recording insight: %w", err)
	}

	result.Action = engine.ActionLockBudget
	result.Reason = "Budget usage at " + usage.StringFixed(1) + "%"
	result.InsightID = in.ID
	r.alert(ctx, notify.BudgetLocked(result.UserID, usage, now))
	return nil
}

func (r *Runner) autoSave(ctx context.Context, result *Result, plan engine.GuardianPlan, now time.Time) error {
	transfer, err := r.store.TransferToSavings(ctx, result.UserID, plan.Amount, now)
	if errors.Is(err, store.ErrInsufficientFunds) {
		r.log.Debug().Str("user_id", result.UserID).Str("amount", plan.Amount.String()).Msg("auto-save skipped: insufficient funds")
		return nil
	}
	if err != nil {
		return fmt.Errorf("auto-saving: %w", err)
	}

	in := &model.Insight{
		UserID:    result.UserID,
		Type:      model.InsightSavings,
		Category:  model.InsightAutoSaved,
		Title:     "Saved ₹" + plan.Amount.StringFixed(0),
		Message:   notify.AutoSavedMessage(plan.Amount),
		CreatedAt: now,
	}
	if err := r.store.AddInsight(ctx, in); err != nil {
		return fmt.Errorf("recording insight: %w", err)
	}

	result.Action = engine.ActionAutoSave
	result.Amount = plan.Amount
	result.Reason = "Saved ₹" + plan.Amount.StringFixed(0) + " to savings"
	result.InsightID = in.ID
	result.Transfer = transfer
	r.alert(ctx, notify.AutoSaved(result.UserID, plan.Amount, now))
	return nil
}

// alert failures are logged; the ledger change already committed.
func (r *Runner) alert(ctx context.Context, a notify.Alert) {
	if err := r.sink.Send(ctx, a); err != nil {
		r.log.Error().Err(err).Str("user_id", a.UserID).Str("kind", a.Kind).Msg("sending alert")
	}
}

// Sweep runs the guardian for every user. Users whose run is already in
// progress are skipped. Per-user errors are logged and do not stop the sweep.
func (r *Runner) Sweep(ctx context.Context, users []string) []*Result {
	var results []*Result
	for _, u := range users {
		if ctx.Err() != nil {
			break
		}
		res, err := r.Run(ctx, u)
		switch {
		case errors.Is(err, lock.ErrLocked):
			r.log.Debug().Str("user_id", u).Msg("guardian run already in progress")
		case err != nil:
			r.log.Error().Err(err).Str("user_id", u).Msg("guardian run failed")
		default:
			results = append(results, res)
		}
	}
	return results
}
