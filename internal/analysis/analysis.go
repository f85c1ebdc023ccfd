// Package analysis turns solved LeetCode problems into concept breakdowns with
// a suggested recall date, using an LLM when one is configured.
package analysis

import (
	"context"
	"time"
)

// SubmissionInput is one solved problem to analyse.
type SubmissionInput struct {
	Problem     string
	TitleSlug   string
	Difficulty  string
	SubmittedAt time.Time
	Attempts    int
	HintsUsed   bool
	// ConceptReusedRecently is set when a similar concept was solved in the last two weeks.
	ConceptReusedRecently bool
}

// Result is the normalised analysis of one problem.
type Result struct {
	Problem        string
	TitleSlug      string
	Concepts       []string
	Description    string
	NextRecallDate time.Time
	Reasoning      string
	Difficulty     string
	Category       string
	Source         string
}

// Analyzer produces one Result per analysed input. Inputs it could not
// process are left out of the result so callers can retry them later.
type Analyzer interface {
	Analyze(ctx context.Context, inputs []SubmissionInput) ([]Result, error)
}
