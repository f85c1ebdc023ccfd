package models

import "time"

// Analysis status values for a submission.
const (
	AnalysisStatusPending   = "pending"
	AnalysisStatusCompleted = "completed"
	AnalysisStatusFailed    = "failed"
)

// Submission is one accepted LeetCode submission.
type Submission struct {
	ID             int64     `json:"id"`
	ProfileID      int64     `json:"profile_id"`
	LeetCodeID     string    `json:"leetcode_id"`
	Title          string    `json:"title"`
	TitleSlug      string    `json:"title_slug"`
	Lang           string    `json:"lang"`
	Difficulty     string    `json:"difficulty,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
	AnalysisStatus string    `json:"analysis_status"`
	CreatedAt      time.Time `json:"created_at"`
}

type SubmissionFilter struct {
	ProfileID int64
	Status    string
	Limit     int
	Offset    int
}
