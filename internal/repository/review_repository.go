package repository

import (
	"context"
	"time"

	"github.com/leetloop/leetloop/internal/models"
)

// ConceptReviewRepository handles concept review scheduling data access
type ConceptReviewRepository interface {
	Get(ctx context.Context, id int64, profileID int64) (*models.ConceptReview, error)
	List(ctx context.Context, filter models.ConceptReviewFilter) ([]models.ConceptReview, error)
	Count(ctx context.Context, filter models.ConceptReviewFilter) (int, error)
	// Seed inserts a new review or, for an existing concept, records the latest
	// solve and pulls the next review forward without touching its schedule.
	Seed(ctx context.Context, review models.ConceptReview) (*models.ConceptReview, error)
	// ApplyReview persists the new schedule and appends the history entry atomically.
	ApplyReview(ctx context.Context, review models.ConceptReview, entry models.ReviewHistory) error
	History(ctx context.Context, reviewID int64, limit int) ([]models.ReviewHistory, error)
	Counts(ctx context.Context, profileID int64, now time.Time) (*models.ReviewCounts, error)
}
