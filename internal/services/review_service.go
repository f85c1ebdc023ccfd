package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/leetloop/leetloop/internal/analysis"
	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
	"github.com/leetloop/leetloop/internal/srs"
)

const (
	defaultHistoryLimit = 50
	maxListLimit        = 200
)

// ReviewService schedules concept reviews with the SM-2 calculator
type ReviewService interface {
	ListReviews(ctx context.Context, filter models.ConceptReviewFilter, now time.Time) ([]models.ConceptReview, int, error)
	DueReviews(ctx context.Context, profileID int64, now time.Time, limit int) ([]models.ConceptReview, error)
	RateReview(ctx context.Context, profileID, reviewID int64, rating int, now time.Time) (*models.ConceptReview, error)
	ReviewHistory(ctx context.Context, profileID, reviewID int64, limit int) ([]models.ReviewHistory, error)
	PreviewNextReview(interval int, easeFactor float64, rating int) (srs.NextReview, error)
	AdjustDifficulty(current int, wasCorrect bool) (int, error)
}

type reviewService struct {
	reviewRepo repository.ConceptReviewRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo repository.ConceptReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

func (s *reviewService) ListReviews(ctx context.Context, filter models.ConceptReviewFilter, now time.Time) ([]models.ConceptReview, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing reviews: profile_id=%d, difficulty=%s, tag=%s", filter.ProfileID, filter.Difficulty, filter.TagSlug)

	if filter.Difficulty != "" {
		d := strings.ToLower(filter.Difficulty)
		if d != "easy" && d != "medium" && d != "hard" {
			return nil, 0, errors.NewValidationError("difficulty", "must be Easy, Medium or Hard")
		}
		filter.Difficulty = analysis.NormalizeDifficulty(d, "")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("limit", "limit and offset cannot be negative")
	}
	filter.Limit = min(filter.Limit, maxListLimit)

	reviews, err := s.reviewRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list reviews: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.reviewRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count reviews: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	for i := range reviews {
		reviews[i].MarkOverdue(now)
	}
	return reviews, total, nil
}

func (s *reviewService) DueReviews(ctx context.Context, profileID int64, now time.Time, limit int) ([]models.ConceptReview, error) {
	reviews, _, err := s.ListReviews(ctx, models.ConceptReviewFilter{
		ProfileID: profileID,
		DueBefore: &now,
		Limit:     limit,
	}, now)
	return reviews, err
}

func (s *reviewService) RateReview(ctx context.Context, profileID, reviewID int64, rating int, now time.Time) (*models.ConceptReview, error) {
	log := logger.FromContext(ctx)
	log.Debug("rating review: review_id=%d, rating=%d", reviewID, rating)

	if err := srs.ValidateRating(rating); err != nil {
		return nil, errors.NewValidationError("rating", "must be between 0 and 5")
	}

	review, err := s.reviewRepo.Get(ctx, reviewID, profileID)
	if err != nil {
		log.Error("failed to get review: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if review == nil {
		return nil, errors.NewNotFoundError("concept review", reviewID)
	}

	next, err := srs.Review(srs.ReviewState{
		Interval:   review.IntervalDays,
		EaseFactor: review.EaseFactor,
		Difficulty: review.Mastery,
	}, rating)
	if err != nil {
		// Stored state outside the calculator's domain.
		log.Error("review %d has invalid schedule state: %v", reviewID, err)
		return nil, errors.NewValidationError("review", err.Error())
	}

	reviewedAt := now.UTC()
	review.IntervalDays = next.Interval
	review.EaseFactor = next.EaseFactor
	review.Mastery = next.Difficulty
	review.RepetitionCount++
	review.LastReviewedAt = &reviewedAt
	review.NextReviewAt = srs.DueAt(reviewedAt, next.Interval)
	review.UpdatedAt = reviewedAt

	entry := models.ReviewHistory{
		ConceptReviewID: review.ID,
		Rating:          rating,
		IntervalDays:    next.Interval,
		EaseFactor:      next.EaseFactor,
		ReviewedAt:      reviewedAt,
	}
	if err := s.reviewRepo.ApplyReview(ctx, *review, entry); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("concept review", reviewID)
		}
		log.Error("failed to apply review: %v", err)
		return nil, errors.NewInternalError(err)
	}

	review.MarkOverdue(reviewedAt)
	log.Info("review %d rated %d: next in %d days (ease %.2f, mastery %d)",
		reviewID, rating, next.Interval, next.EaseFactor, next.Difficulty)
	return review, nil
}

func (s *reviewService) ReviewHistory(ctx context.Context, profileID, reviewID int64, limit int) ([]models.ReviewHistory, error) {
	log := logger.FromContext(ctx)

	review, err := s.reviewRepo.Get(ctx, reviewID, profileID)
	if err != nil {
		log.Error("failed to get review: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if review == nil {
		return nil, errors.NewNotFoundError("concept review", reviewID)
	}

	if limit <= 0 || limit > maxListLimit {
		limit = defaultHistoryLimit
	}
	history, err := s.reviewRepo.History(ctx, reviewID, limit)
	if err != nil {
		log.Error("failed to load review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return history, nil
}

func (s *reviewService) PreviewNextReview(interval int, easeFactor float64, rating int) (srs.NextReview, error) {
	switch {
	case srs.ValidateRating(rating) != nil:
		return srs.NextReview{}, errors.NewValidationError("rating", "must be between 0 and 5")
	case interval < 0:
		return srs.NextReview{}, errors.NewValidationError("interval", "cannot be negative")
	case interval > srs.MaxInterval:
		return srs.NextReview{}, errors.NewValidationError("interval", fmt.Sprintf("must be at most %d days", srs.MaxInterval))
	case math.IsNaN(easeFactor) || math.IsInf(easeFactor, 0):
		return srs.NextReview{}, errors.NewValidationError("ease_factor", "must be a finite number")
	case easeFactor < srs.MinEaseFactor:
		return srs.NextReview{}, errors.NewValidationError("ease_factor", "must be at least 1.3")
	case easeFactor > srs.MaxEaseFactor:
		return srs.NextReview{}, errors.NewValidationError("ease_factor", "must be at most 10")
	}
	return srs.CalculateNextReview(interval, easeFactor, rating), nil
}

func (s *reviewService) AdjustDifficulty(current int, wasCorrect bool) (int, error) {
	if current < srs.MinDifficulty || current > srs.MaxDifficulty {
		return 0, errors.NewValidationError("current_difficulty", "must be between 0 and 5")
	}
	return srs.UpdateDifficulty(current, wasCorrect), nil
}
