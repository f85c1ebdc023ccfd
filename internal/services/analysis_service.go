package services

import (
	"context"
	"fmt"
	"time"

	"github.com/leetloop/leetloop/internal/analysis"
	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
	"github.com/leetloop/leetloop/internal/srs"
)

// AnalysisResult summarises one pass over a profile's pending submissions.
type AnalysisResult struct {
	ProfileID     int64 `json:"profile_id"`
	Pending       int   `json:"pending"`
	Analyzed      int   `json:"analyzed"`
	Reused        int   `json:"reused"`
	Fallback      int   `json:"fallback"`
	ReviewsSeeded int   `json:"reviews_seeded"`
}

// AnalysisService turns pending submissions into concept analyses and reviews
type AnalysisService interface {
	AnalyzePending(ctx context.Context, profileID int64) (*AnalysisResult, error)
	// AnalyzeProfile is AnalyzePending for background jobs.
	AnalyzeProfile(ctx context.Context, profileID int64) error
	ListAnalyses(ctx context.Context, filter models.AnalysisFilter) ([]models.ProblemAnalysis, int, error)
	ListSubmissions(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
}

type analysisService struct {
	submissionRepo repository.SubmissionRepository
	analysisRepo   repository.AnalysisRepository
	reviewRepo     repository.ConceptReviewRepository
	analyzer       analysis.Analyzer
	batchSize      int
	running        *inflight
}

// NewAnalysisService creates a new AnalysisService. batchSize bounds how many
// pending submissions are read per pass.
func NewAnalysisService(
	submissionRepo repository.SubmissionRepository,
	analysisRepo repository.AnalysisRepository,
	reviewRepo repository.ConceptReviewRepository,
	analyzer analysis.Analyzer,
	batchSize int,
) AnalysisService {
	if batchSize <= 0 {
		batchSize = analysis.DefaultBatchSize
	}
	return &analysisService{
		submissionRepo: submissionRepo,
		analysisRepo:   analysisRepo,
		reviewRepo:     reviewRepo,
		analyzer:       analyzer,
		batchSize:      batchSize,
		running:        newInflight(),
	}
}

// problemGroup is every pending submission of one problem.
type problemGroup struct {
	slug        string
	title       string
	difficulty  string
	ids         []int64
	submittedAt time.Time
}

func (s *analysisService) AnalyzeProfile(ctx context.Context, profileID int64) error {
	_, err := s.AnalyzePending(ctx, profileID)
	return err
}

func (s *analysisService) AnalyzePending(ctx context.Context, profileID int64) (*AnalysisResult, error) {
	log := logger.FromContext(ctx).WithField("profile_id", profileID)

	if !s.running.acquire(profileID) {
		return nil, errors.NewConflictError(fmt.Sprintf("analysis already running for profile %d", profileID))
	}
	defer s.running.release(profileID)

	pending, err := s.submissionRepo.Pending(ctx, profileID, s.batchSize)
	if err != nil {
		log.Error("failed to load pending submissions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	result := &AnalysisResult{ProfileID: profileID, Pending: len(pending)}
	if len(pending) == 0 {
		log.Debug("no pending submissions")
		return result, nil
	}

	groups, order := groupBySlug(pending)

	var inputs []analysis.SubmissionInput
	for _, slug := range order {
		g := groups[slug]
		existing, err := s.analysisRepo.GetBySlug(ctx, profileID, slug)
		if err != nil {
			log.Error("failed to look up analysis for %s: %v", slug, err)
			return nil, errors.NewInternalError(err)
		}
		if existing != nil && existing.Source != models.AnalysisSourceFallback {
			seeded, err := s.seedReviews(ctx, profileID, existing.Concepts, existing.Difficulty, existing.NextRecallDate, g.submittedAt)
			if err != nil {
				return nil, errors.NewInternalError(err)
			}
			if err := s.submissionRepo.UpdateStatus(ctx, g.ids, models.AnalysisStatusCompleted); err != nil {
				return nil, errors.NewInternalError(err)
			}
			result.Reused++
			result.ReviewsSeeded += seeded
			continue
		}
		inputs = append(inputs, analysis.SubmissionInput{
			Problem:     g.title,
			TitleSlug:   g.slug,
			Difficulty:  g.difficulty,
			SubmittedAt: g.submittedAt,
			Attempts:    len(g.ids),
		})
	}

	if len(inputs) == 0 {
		return result, nil
	}

	log.Info("analyzing %d problems", len(inputs))
	results, err := s.analyzer.Analyze(ctx, inputs)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewInternalError(ctx.Err())
		}
		log.Error("analysis failed: %v", err)
		return nil, errors.NewUpstreamError("llm", err)
	}

	for _, r := range results {
		g, ok := groups[r.TitleSlug]
		if !ok {
			log.Warn("analysis returned unknown problem %q", r.TitleSlug)
			continue
		}

		_, err := s.analysisRepo.Upsert(ctx, models.ProblemAnalysis{
			ProfileID:      profileID,
			TitleSlug:      r.TitleSlug,
			Problem:        r.Problem,
			Concepts:       r.Concepts,
			Description:    r.Description,
			NextRecallDate: r.NextRecallDate,
			Reasoning:      r.Reasoning,
			Difficulty:     r.Difficulty,
			Category:       r.Category,
			Source:         r.Source,
		})
		if err != nil {
			log.Error("failed to store analysis for %s: %v", r.TitleSlug, err)
			return nil, errors.NewInternalError(err)
		}

		status := models.AnalysisStatusCompleted
		if r.Source == models.AnalysisSourceFallback {
			// Placeholder concepts are not worth scheduling.
			status = models.AnalysisStatusFailed
			result.Fallback++
		} else {
			seeded, err := s.seedReviews(ctx, profileID, r.Concepts, r.Difficulty, r.NextRecallDate, g.submittedAt)
			if err != nil {
				return nil, errors.NewInternalError(err)
			}
			result.Analyzed++
			result.ReviewsSeeded += seeded
		}
		if err := s.submissionRepo.UpdateStatus(ctx, g.ids, status); err != nil {
			log.Error("failed to mark submissions %s: %v", status, err)
			return nil, errors.NewInternalError(err)
		}
	}

	log.Info("analysis pass finished: %d analyzed, %d reused, %d fallback, %d reviews seeded",
		result.Analyzed, result.Reused, result.Fallback, result.ReviewsSeeded)
	return result, nil
}

// seedReviews creates or refreshes one concept review per concept.
func (s *analysisService) seedReviews(ctx context.Context, profileID int64, concepts []string, difficulty string, recall, solvedAt time.Time) (int, error) {
	log := logger.FromContext(ctx)
	solved := solvedAt.UTC()
	seeded := 0
	for _, c := range concepts {
		slug := analysis.ConceptSlug(c)
		if slug == "" {
			continue
		}
		_, err := s.reviewRepo.Seed(ctx, models.ConceptReview{
			ProfileID:    profileID,
			ConceptName:  c,
			TagSlug:      slug,
			Difficulty:   difficulty,
			IntervalDays: 0,
			EaseFactor:   srs.InitialEaseFactor,
			LastSolvedAt: &solved,
			NextReviewAt: recall,
		})
		if err != nil {
			log.Error("failed to seed review for %s: %v", slug, err)
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

func (s *analysisService) ListAnalyses(ctx context.Context, filter models.AnalysisFilter) ([]models.ProblemAnalysis, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing analyses: profile_id=%d, category=%s, concept=%s", filter.ProfileID, filter.Category, filter.Concept)

	items, err := s.analysisRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list analyses: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.analysisRepo.Count(ctx, filter.ProfileID)
	if err != nil {
		log.Error("failed to count analyses: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return items, total, nil
}

func (s *analysisService) ListSubmissions(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing submissions: profile_id=%d, status=%s", filter.ProfileID, filter.Status)

	switch filter.Status {
	case "", models.AnalysisStatusPending, models.AnalysisStatusCompleted, models.AnalysisStatusFailed:
	default:
		return nil, 0, errors.NewValidationError("status", "must be pending, completed or failed")
	}

	items, err := s.submissionRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list submissions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.submissionRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count submissions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return items, total, nil
}

// groupBySlug collects submissions per problem, keeping first-seen order.
func groupBySlug(subs []models.Submission) (map[string]*problemGroup, []string) {
	groups := make(map[string]*problemGroup, len(subs))
	var order []string
	for _, sub := range subs {
		g, ok := groups[sub.TitleSlug]
		if !ok {
			g = &problemGroup{slug: sub.TitleSlug, title: sub.Title, difficulty: sub.Difficulty}
			groups[sub.TitleSlug] = g
			order = append(order, sub.TitleSlug)
		}
		g.ids = append(g.ids, sub.ID)
		if sub.SubmittedAt.After(g.submittedAt) {
			g.submittedAt = sub.SubmittedAt
		}
	}
	return groups, order
}
