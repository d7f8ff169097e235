package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/model"
)

// GetProfile returns the user's spending profile or ErrNotFound.
func (s *Store) GetProfile(ctx context.Context, userID string) (*model.SpendingProfile, error) {
	return getProfile(ctx, s.db, userID)
}

func getProfile(ctx context.Context, db execer, userID string) (*model.SpendingProfile, error) {
	var (
		p                               model.SpendingProfile
		risk, style, triggers, updated  string
		happy, regret, fear, goal, feel sql.NullString
	)
	err := db.QueryRowContext(ctx, `SELECT risk_tolerance, spending_style, regret_threshold, emotional_triggers,
		happy_purchase, regret_purchase, financial_fear, saving_goal, money_feeling,
		approved_decisions, rejected_decisions, updated_at
		FROM profiles WHERE user_id = ?`, userID).Scan(
		&risk, &style, &p.RegretThreshold, &triggers,
		&happy, &regret, &fear, &goal, &feel,
		&p.ApprovedDecisions, &p.RejectedDecisions, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	p.UserID = userID
	p.RiskTolerance = model.RiskTolerance(risk)
	p.SpendingStyle = model.SpendingStyle(style)
	if err := json.Unmarshal([]byte(triggers), &p.EmotionalTriggers); err != nil {
		return nil, fmt.Errorf("decoding triggers for %s: %w", userID, err)
	}
	p.HappyPurchase = stringPtr(happy)
	p.RegretPurchase = stringPtr(regret)
	p.FinancialFear = stringPtr(fear)
	p.SavingGoal = stringPtr(goal)
	p.MoneyFeeling = stringPtr(feel)
	p.UpdatedAt, _ = parseTime(updated)
	return &p, nil
}

// SaveProfile merges answers into the stored profile (creating it when
// missing), replaces the behavior fields and returns the stored result.
// Decision counters are preserved.
func (s *Store) SaveProfile(ctx context.Context, userID string, answers model.ProfileAnswers, behavior model.Behavior, at time.Time) (*model.SpendingProfile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := ensureUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	p, err := getProfile(ctx, tx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		p = &model.SpendingProfile{UserID: userID}
	case err != nil:
		return nil, err
	}

	p.ProfileAnswers.Merge(answers)
	p.Behavior = behavior
	if p.EmotionalTriggers == nil {
		p.EmotionalTriggers = []string{}
	}
	p.UpdatedAt = at

	triggers, err := json.Marshal(p.EmotionalTriggers)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO profiles
		(user_id, risk_tolerance, spending_style, regret_threshold, emotional_triggers,
		 happy_purchase, regret_purchase, financial_fear, saving_goal, money_feeling,
		 approved_decisions, rejected_decisions, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, string(p.RiskTolerance), string(p.SpendingStyle), p.RegretThreshold, string(triggers),
		nullString(p.HappyPurchase), nullString(p.RegretPurchase), nullString(p.FinancialFear),
		nullString(p.SavingGoal), nullString(p.MoneyFeeling),
		p.ApprovedDecisions, p.RejectedDecisions, formatTime(at),
	)
	if err != nil {
		return nil, fmt.Errorf("saving profile for %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordDecision bumps the approved counter for APPROVE and the rejected
// counter for WAIT. Other verdicts are not counted.
func (s *Store) RecordDecision(ctx context.Context, userID string, verdict model.Verdict) error {
	var column string
	switch verdict {
	case model.Approve:
		column = "approved_decisions"
	case model.Wait:
		column = "rejected_decisions"
	default:
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET "+column+" = "+column+" + 1, updated_at = ? WHERE user_id = ?",
		formatTime(time.Now()), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile for %s: %w", userID, ErrNotFound)
	}
	return nil
}
