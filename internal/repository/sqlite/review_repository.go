package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
)

type conceptReviewRepository struct {
	db *sql.DB
}

// NewConceptReviewRepository creates a new ConceptReviewRepository implementation
func NewConceptReviewRepository(db *sql.DB) repository.ConceptReviewRepository {
	return &conceptReviewRepository{db: db}
}

var conceptReviewColumns = []string{
	"id", "profile_id", "concept_name", "tag_slug", "difficulty", "mastery", "repetition_count",
	"interval_days", "ease_factor", "last_solved_at", "last_reviewed_at", "next_review_at",
	"created_at", "updated_at",
}

func scanConceptReview(row interface{ Scan(...any) error }) (models.ConceptReview, error) {
	var c models.ConceptReview
	err := row.Scan(&c.ID, &c.ProfileID, &c.ConceptName, &c.TagSlug, &c.Difficulty, &c.Mastery, &c.RepetitionCount,
		&c.IntervalDays, &c.EaseFactor, &c.LastSolvedAt, &c.LastReviewedAt, &c.NextReviewAt,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *conceptReviewRepository) Get(ctx context.Context, id int64, profileID int64) (*models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("getting concept review: id=%d, profile_id=%d", id, profileID)

	query, args, err := sqlBuilder.Select(conceptReviewColumns...).From("concept_reviews").
		Where(squirrel.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanConceptReview(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("concept review not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get concept review: %v", err)
		return nil, err
	}
	return &c, nil
}

func applyReviewFilter(query squirrel.SelectBuilder, filter models.ConceptReviewFilter) squirrel.SelectBuilder {
	if filter.ProfileID != 0 {
		query = query.Where(squirrel.Eq{"profile_id": filter.ProfileID})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.LtOrEq{"next_review_at": filter.DueBefore.UTC()})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.TagSlug != "" {
		query = query.Where(squirrel.Eq{"tag_slug": filter.TagSlug})
	}
	return query
}

func (r *conceptReviewRepository) List(ctx context.Context, filter models.ConceptReviewFilter) ([]models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("listing concept reviews: profile_id=%d, difficulty=%s, tag=%s, due=%t",
		filter.ProfileID, filter.Difficulty, filter.TagSlug, filter.DueBefore != nil)

	query := applyReviewFilter(sqlBuilder.Select(conceptReviewColumns...).From("concept_reviews"), filter).
		OrderBy("next_review_at ASC", "id ASC")
	query = paginate(query, filter.Limit, filter.Offset)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list concept reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []models.ConceptReview
	for rows.Next() {
		c, err := scanConceptReview(rows)
		if err != nil {
			log.Error("failed to scan concept review row: %v", err)
			return nil, err
		}
		reviews = append(reviews, c)
	}
	log.Debug("found %d concept reviews", len(reviews))
	return reviews, rows.Err()
}

func (r *conceptReviewRepository) Count(ctx context.Context, filter models.ConceptReviewFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	query, args, err := applyReviewFilter(sqlBuilder.Select("COUNT(*)").From("concept_reviews"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count concept reviews: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *conceptReviewRepository) Seed(ctx context.Context, review models.ConceptReview) (*models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("seeding concept review: profile_id=%d, tag=%s", review.ProfileID, review.TagSlug)

	var lastSolved any
	if review.LastSolvedAt != nil {
		lastSolved = review.LastSolvedAt.UTC()
	}

	var seeded models.ConceptReview
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO concept_reviews (profile_id, concept_name, tag_slug, difficulty, mastery, repetition_count, interval_days, ease_factor, last_solved_at, next_review_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile_id, tag_slug) DO UPDATE SET
    concept_name = excluded.concept_name,
    difficulty = excluded.difficulty,
    last_solved_at = CASE
        WHEN concept_reviews.last_solved_at IS NULL OR excluded.last_solved_at > concept_reviews.last_solved_at
        THEN excluded.last_solved_at
        ELSE concept_reviews.last_solved_at
    END,
    next_review_at = MIN(concept_reviews.next_review_at, excluded.next_review_at),
    updated_at = CURRENT_TIMESTAMP
`, review.ProfileID, review.ConceptName, review.TagSlug, review.Difficulty, review.Mastery, review.RepetitionCount,
			review.IntervalDays, review.EaseFactor, lastSolved, review.NextReviewAt.UTC())
		if err != nil {
			return err
		}

		query, args, err := sqlBuilder.Select(conceptReviewColumns...).From("concept_reviews").
			Where(squirrel.Eq{"profile_id": review.ProfileID, "tag_slug": review.TagSlug}).
			ToSql()
		if err != nil {
			return err
		}
		seeded, err = scanConceptReview(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		log.Error("failed to seed concept review %s: %v", review.TagSlug, err)
		return nil, err
	}
	return &seeded, nil
}

func (r *conceptReviewRepository) ApplyReview(ctx context.Context, review models.ConceptReview, entry models.ReviewHistory) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("applying review: id=%d, rating=%d, interval=%d, ease=%.2f",
		review.ID, entry.Rating, review.IntervalDays, review.EaseFactor)

	reviewedAt := entry.ReviewedAt.UTC()
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE concept_reviews
SET mastery = ?, repetition_count = ?, interval_days = ?, ease_factor = ?,
    last_reviewed_at = ?, next_review_at = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND profile_id = ?
`, review.Mastery, review.RepetitionCount, review.IntervalDays, review.EaseFactor,
			reviewedAt, review.NextReviewAt.UTC(), review.ID, review.ProfileID)
		if err != nil {
			log.Error("failed to update concept review %d: %v", review.ID, err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: id=%d", repository.ErrNotFound, review.ID)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO review_history (concept_review_id, rating, interval_days, ease_factor, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, review.ID, entry.Rating, review.IntervalDays, review.EaseFactor, reviewedAt); err != nil {
			log.Error("failed to insert review history: %v", err)
			return err
		}
		return nil
	})
}

func (r *conceptReviewRepository) History(ctx context.Context, reviewID int64, limit int) ([]models.ReviewHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	query := sqlBuilder.Select("id", "concept_review_id", "rating", "interval_days", "ease_factor", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"concept_review_id": reviewID}).
		OrderBy("reviewed_at DESC", "id DESC")
	sqlStr, args, err := paginate(query, limit, 0).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var history []models.ReviewHistory
	for rows.Next() {
		var h models.ReviewHistory
		if err := rows.Scan(&h.ID, &h.ConceptReviewID, &h.Rating, &h.IntervalDays, &h.EaseFactor, &h.ReviewedAt); err != nil {
			log.Error("failed to scan review history row: %v", err)
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *conceptReviewRepository) Counts(ctx context.Context, profileID int64, now time.Time) (*models.ReviewCounts, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	var c models.ReviewCounts
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN next_review_at <= ? THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN mastery >= 5 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN last_reviewed_at IS NOT NULL THEN 1 ELSE 0 END), 0)
FROM concept_reviews
WHERE profile_id = ?
`, now.UTC(), profileID).Scan(&c.Total, &c.Due, &c.Mastered, &c.Reviewed)
	if err != nil {
		log.Error("failed to count reviews: %v", err)
		return nil, err
	}
	return &c, nil
}
