package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
)

type analysisRepository struct {
	db *sql.DB
}

// NewAnalysisRepository creates a new AnalysisRepository implementation
func NewAnalysisRepository(db *sql.DB) repository.AnalysisRepository {
	return &analysisRepository{db: db}
}

var analysisColumns = []string{
	"id", "profile_id", "title_slug", "problem", "concepts", "description", "next_recall_date",
	"reasoning", "difficulty", "category", "source", "created_at",
}

func scanAnalysis(row interface{ Scan(...any) error }) (models.ProblemAnalysis, error) {
	var (
		a        models.ProblemAnalysis
		concepts string
	)
	if err := row.Scan(&a.ID, &a.ProfileID, &a.TitleSlug, &a.Problem, &concepts, &a.Description, &a.NextRecallDate,
		&a.Reasoning, &a.Difficulty, &a.Category, &a.Source, &a.CreatedAt); err != nil {
		return a, err
	}
	if err := json.Unmarshal([]byte(concepts), &a.Concepts); err != nil {
		return a, err
	}
	return a, nil
}

func (r *analysisRepository) Upsert(ctx context.Context, a models.ProblemAnalysis) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("analysis_repo")
	log.Debug("upserting analysis: profile_id=%d, slug=%s", a.ProfileID, a.TitleSlug)

	concepts := a.Concepts
	if concepts == nil {
		concepts = []string{}
	}
	conceptsJSON, err := json.Marshal(concepts)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRowContext(ctx, `
INSERT INTO problem_analyses (profile_id, title_slug, problem, concepts, description, next_recall_date, reasoning, difficulty, category, source)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile_id, title_slug) DO UPDATE SET
    problem = excluded.problem,
    concepts = excluded.concepts,
    description = excluded.description,
    next_recall_date = excluded.next_recall_date,
    reasoning = excluded.reasoning,
    difficulty = excluded.difficulty,
    category = excluded.category,
    source = excluded.source
RETURNING id
`, a.ProfileID, a.TitleSlug, a.Problem, string(conceptsJSON), a.Description, a.NextRecallDate.UTC(),
		a.Reasoning, a.Difficulty, a.Category, a.Source).Scan(&id)
	if err != nil {
		log.Error("failed to upsert analysis: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *analysisRepository) GetBySlug(ctx context.Context, profileID int64, titleSlug string) (*models.ProblemAnalysis, error) {
	log := logger.FromContext(ctx).WithPrefix("analysis_repo")

	query, args, err := sqlBuilder.Select(analysisColumns...).From("problem_analyses").
		Where(squirrel.Eq{"profile_id": profileID, "title_slug": titleSlug}).
		ToSql()
	if err != nil {
		return nil, err
	}

	a, err := scanAnalysis(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("analysis not found: profile_id=%d, slug=%s", profileID, titleSlug)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get analysis: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepository) List(ctx context.Context, filter models.AnalysisFilter) ([]models.ProblemAnalysis, error) {
	log := logger.FromContext(ctx).WithPrefix("analysis_repo")
	log.Debug("listing analyses: profile_id=%d, category=%s, concept=%s", filter.ProfileID, filter.Category, filter.Concept)

	query := sqlBuilder.Select(analysisColumns...).From("problem_analyses")
	if filter.ProfileID != 0 {
		query = query.Where(squirrel.Eq{"profile_id": filter.ProfileID})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Concept != "" {
		query = query.Where("EXISTS (SELECT 1 FROM json_each(problem_analyses.concepts) WHERE json_each.value = ? COLLATE NOCASE)", filter.Concept)
	}
	query = paginate(query.OrderBy("next_recall_date ASC", "id ASC"), filter.Limit, filter.Offset)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list analyses: %v", err)
		return nil, err
	}
	defer rows.Close()

	var analyses []models.ProblemAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			log.Error("failed to scan analysis row: %v", err)
			return nil, err
		}
		analyses = append(analyses, a)
	}
	log.Debug("found %d analyses", len(analyses))
	return analyses, rows.Err()
}

func (r *analysisRepository) Count(ctx context.Context, profileID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problem_analyses WHERE profile_id = ?`, profileID).Scan(&count)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("analysis_repo").Error("failed to count analyses: %v", err)
	}
	return count, err
}
