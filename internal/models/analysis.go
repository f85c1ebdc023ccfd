package models

import "time"

// Analysis sources.
const (
	AnalysisSourceLLM       = "llm"
	AnalysisSourceHeuristic = "heuristic"
	AnalysisSourceFallback  = "fallback"
)

// ProblemAnalysis is the concept breakdown of one solved problem.
type ProblemAnalysis struct {
	ID             int64     `json:"id"`
	ProfileID      int64     `json:"profile_id"`
	TitleSlug      string    `json:"title_slug"`
	Problem        string    `json:"problem"`
	Concepts       []string  `json:"concepts"`
	Description    string    `json:"description"`
	NextRecallDate time.Time `json:"next_recall_date"`
	Reasoning      string    `json:"reasoning"`
	Difficulty     string    `json:"difficulty"`
	Category       string    `json:"category"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
}

type AnalysisFilter struct {
	ProfileID int64
	Category  string
	Concept   string
	Limit     int
	Offset    int
}
