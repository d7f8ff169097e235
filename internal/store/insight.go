package store

import (
	"context"
	"time"

	"github.com/theirongolddev/welth/internal/model"

	"github.com/google/uuid"
)

// AddInsight stores an insight, filling in ID and CreatedAt when empty.
func (s *Store) AddInsight(ctx context.Context, in *model.Insight) error {
	if err := s.EnsureUser(ctx, in.UserID); err != nil {
		return err
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO insights (id, user_id, type, category, title, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Type, in.Category, in.Title, in.Message, formatTime(in.CreatedAt))
	return err
}

// ListInsights returns the user's most recent insights, newest first.
func (s *Store) ListInsights(ctx context.Context, userID string, limit int) ([]model.Insight, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, type, category, title, message, created_at
		FROM insights WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Insight
	for rows.Next() {
		in := model.Insight{UserID: userID}
		var created string
		if err := rows.Scan(&in.ID, &in.Type, &in.Category, &in.Title, &in.Message, &created); err != nil {
			return nil, err
		}
		in.CreatedAt, _ = parseTime(created)
		out = append(out, in)
	}
	return out, rows.Err()
}
