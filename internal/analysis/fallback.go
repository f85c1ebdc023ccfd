package analysis

import (
	"fmt"
	"time"

	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/srs"
)

// Fallback is the deterministic analysis used when the model gives nothing
// usable. index staggers recall dates so fallbacks do not all land on one day.
func Fallback(in SubmissionInput, index int, now time.Time) Result {
	difficulty := NormalizeDifficulty(in.Difficulty, "")
	return Result{
		Problem:        in.Problem,
		TitleSlug:      in.TitleSlug,
		Concepts:       append([]string(nil), FallbackConcepts...),
		Description:    fmt.Sprintf("Analysis for %s - please try again for detailed insights.", in.Problem),
		NextRecallDate: srs.DueAt(now, 7+index),
		Reasoning:      fmt.Sprintf("Default analysis. Estimated %s difficulty.", difficulty),
		Difficulty:     difficulty,
		Category:       defaultCategory,
		Source:         models.AnalysisSourceFallback,
	}
}
