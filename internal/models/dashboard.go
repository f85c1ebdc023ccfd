package models

import "time"

type DifficultyCount struct {
	Difficulty string `json:"difficulty"`
	Solved     int    `json:"solved"`
	Total      int    `json:"total"`
}

type LanguageStat struct {
	Language       string `json:"language"`
	ProblemsSolved int    `json:"problems_solved"`
}

type TagStat struct {
	TagName        string `json:"tag_name"`
	TagSlug        string `json:"tag_slug"`
	Level          string `json:"level"`
	ProblemsSolved int    `json:"problems_solved"`
}

// Dashboard aggregates the latest snapshot with review queue state.
type Dashboard struct {
	ProfileID          int64             `json:"profile_id"`
	Username           string            `json:"username"`
	LastSyncAt         *time.Time        `json:"last_sync_at"`
	SnapshotAt         *time.Time        `json:"snapshot_at"`
	TotalSolved        int               `json:"total_solved"`
	Solved             []DifficultyCount `json:"solved"`
	AcceptanceRate     float64           `json:"acceptance_rate"`
	Streak             int               `json:"streak"`
	TotalActiveDays    int               `json:"total_active_days"`
	ActiveDaysLast30   int               `json:"active_days_last_30"`
	Languages          []LanguageStat    `json:"languages"`
	Tags               []TagStat         `json:"tags"`
	Reviews            ReviewCounts      `json:"reviews"`
	AnalyzedProblems   int               `json:"analyzed_problems"`
	PendingSubmissions int               `json:"pending_submissions"`
}
