package models

import "time"

// ConceptReview tracks the spaced-repetition schedule of one concept.
type ConceptReview struct {
	ID              int64      `json:"id"`
	ProfileID       int64      `json:"profile_id"`
	ConceptName     string     `json:"concept_name"`
	TagSlug         string     `json:"tag_slug"`
	Difficulty      string     `json:"difficulty"`
	Mastery         int        `json:"mastery"`
	RepetitionCount int        `json:"repetition_count"`
	IntervalDays    int        `json:"interval_days"`
	EaseFactor      float64    `json:"ease_factor"`
	LastSolvedAt    *time.Time `json:"last_solved_at"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at"`
	NextReviewAt    time.Time  `json:"next_review_at"`
	IsOverdue       bool       `json:"is_overdue"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MarkOverdue sets IsOverdue relative to now.
func (c *ConceptReview) MarkOverdue(now time.Time) {
	c.IsOverdue = !c.NextReviewAt.After(now)
}

type ConceptReviewFilter struct {
	ProfileID  int64
	DueBefore  *time.Time
	Difficulty string
	TagSlug    string
	Limit      int
	Offset     int
}

type ReviewHistory struct {
	ID              int64     `json:"id"`
	ConceptReviewID int64     `json:"concept_review_id"`
	Rating          int       `json:"rating"`
	IntervalDays    int       `json:"interval_days"`
	EaseFactor      float64   `json:"ease_factor"`
	ReviewedAt      time.Time `json:"reviewed_at"`
}

// ReviewCounts summarises a profile's review queue.
type ReviewCounts struct {
	Total    int `json:"total"`
	Due      int `json:"due"`
	Mastered int `json:"mastered"`
	Reviewed int `json:"reviewed"`
}
