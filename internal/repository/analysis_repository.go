package repository

import (
	"context"

	"github.com/leetloop/leetloop/internal/models"
)

// AnalysisRepository handles problem analysis data access
type AnalysisRepository interface {
	// Upsert stores one analysis per profile and problem slug.
	Upsert(ctx context.Context, analysis models.ProblemAnalysis) (int64, error)
	GetBySlug(ctx context.Context, profileID int64, titleSlug string) (*models.ProblemAnalysis, error)
	List(ctx context.Context, filter models.AnalysisFilter) ([]models.ProblemAnalysis, error)
	Count(ctx context.Context, profileID int64) (int, error)
}
