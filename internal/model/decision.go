package model

// Verdict is the advisor's recommendation.
type Verdict string

const (
	Approve  Verdict = "APPROVE"
	Wait     Verdict = "WAIT"
	Consider Verdict = "CONSIDER"
)

// Decision is the advisor output for one proposed purchase.
type Decision struct {
	Verdict          Verdict  `json:"decision"`
	Reasoning        string   `json:"reasoning"`
	Confidence       int      `json:"confidence"`
	SimilarPurchases int      `json:"similar_purchases"`
	Behavior         Behavior `json:"behavior"`
}
