package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
)

type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository implementation
func NewSubmissionRepository(db *sql.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

var submissionColumns = []string{
	"id", "profile_id", "leetcode_id", "title", "title_slug", "lang", "difficulty",
	"submitted_at", "analysis_status", "created_at",
}

func scanSubmission(row interface{ Scan(...any) error }) (models.Submission, error) {
	var s models.Submission
	err := row.Scan(&s.ID, &s.ProfileID, &s.LeetCodeID, &s.Title, &s.TitleSlug, &s.Lang, &s.Difficulty,
		&s.SubmittedAt, &s.AnalysisStatus, &s.CreatedAt)
	return s, err
}

func (r *submissionRepository) InsertBatch(ctx context.Context, submissions []models.Submission) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	if len(submissions) == 0 {
		return 0, nil
	}
	log.Debug("inserting %d submissions", len(submissions))

	inserted := 0
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO submissions (profile_id, leetcode_id, title, title_slug, lang, difficulty, submitted_at, analysis_status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile_id, leetcode_id) DO NOTHING
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, s := range submissions {
			status := s.AnalysisStatus
			if status == "" {
				status = models.AnalysisStatusPending
			}
			res, err := stmt.ExecContext(ctx, s.ProfileID, s.LeetCodeID, s.Title, s.TitleSlug, s.Lang, s.Difficulty,
				s.SubmittedAt.UTC(), status)
			if err != nil {
				log.Error("failed to insert submission %s: %v", s.LeetCodeID, err)
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug("inserted %d new submissions (%d already known)", inserted, len(submissions)-inserted)
	return inserted, nil
}

func applySubmissionFilter(query squirrel.SelectBuilder, filter models.SubmissionFilter) squirrel.SelectBuilder {
	if filter.ProfileID != 0 {
		query = query.Where(squirrel.Eq{"profile_id": filter.ProfileID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"analysis_status": filter.Status})
	}
	return query
}

func (r *submissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	log.Debug("listing submissions: profile_id=%d, status=%s", filter.ProfileID, filter.Status)

	query := applySubmissionFilter(sqlBuilder.Select(submissionColumns...).From("submissions"), filter).
		OrderBy("submitted_at DESC", "id DESC")
	query = paginate(query, filter.Limit, filter.Offset)

	return r.query(ctx, log, query)
}

func (r *submissionRepository) Count(ctx context.Context, filter models.SubmissionFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")

	query, args, err := applySubmissionFilter(sqlBuilder.Select("COUNT(*)").From("submissions"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count submissions: %v", err)
		return 0, err
	}
	return count, nil
}

// Pending returns the oldest submissions still waiting for analysis.
func (r *submissionRepository) Pending(ctx context.Context, profileID int64, limit int) ([]models.Submission, error) {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	log.Debug("listing pending submissions: profile_id=%d, limit=%d", profileID, limit)

	query := sqlBuilder.Select(submissionColumns...).From("submissions").
		Where(squirrel.Eq{"profile_id": profileID, "analysis_status": models.AnalysisStatusPending}).
		OrderBy("submitted_at ASC", "id ASC")
	query = paginate(query, limit, 0)

	return r.query(ctx, log, query)
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, ids []int64, status string) error {
	log := logger.FromContext(ctx).WithPrefix("submission_repo")
	if len(ids) == 0 {
		return nil
	}
	log.Debug("updating %d submissions to status=%s", len(ids), status)

	query, args, err := sqlBuilder.Update("submissions").
		Set("analysis_status", status).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to update submission status: %v", err)
		return err
	}
	return nil
}

func (r *submissionRepository) query(ctx context.Context, log *logger.Logger, query squirrel.SelectBuilder) ([]models.Submission, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list submissions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			log.Error("failed to scan submission row: %v", err)
			return nil, err
		}
		submissions = append(submissions, s)
	}
	log.Debug("found %d submissions", len(submissions))
	return submissions, rows.Err()
}
