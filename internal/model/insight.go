package model

import "time"

// Insight types recorded by the guardian.
const (
	InsightBudget  = "BUDGET"
	InsightSavings = "SAVINGS"
)

// Insight categories recorded by the guardian.
const (
	InsightLockedBudget = "LOCKED_BUDGET"
	InsightAutoSaved    = "AUTO_SAVED"
)

// Insight is a user-facing note left by background processing.
type Insight struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
