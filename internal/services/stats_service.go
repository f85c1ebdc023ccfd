package services

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/leetcode"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
)

var difficultyOrder = []string{"Easy", "Medium", "Hard"}

// StatsService builds the profile dashboard
type StatsService interface {
	Dashboard(ctx context.Context, profile models.Profile, now time.Time) (*models.Dashboard, error)
}

type statsService struct {
	snapshotRepo   repository.SnapshotRepository
	reviewRepo     repository.ConceptReviewRepository
	analysisRepo   repository.AnalysisRepository
	submissionRepo repository.SubmissionRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(
	snapshotRepo repository.SnapshotRepository,
	reviewRepo repository.ConceptReviewRepository,
	analysisRepo repository.AnalysisRepository,
	submissionRepo repository.SubmissionRepository,
) StatsService {
	return &statsService{
		snapshotRepo:   snapshotRepo,
		reviewRepo:     reviewRepo,
		analysisRepo:   analysisRepo,
		submissionRepo: submissionRepo,
	}
}

func (s *statsService) Dashboard(ctx context.Context, profile models.Profile, now time.Time) (*models.Dashboard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building dashboard: profile_id=%d", profile.ID)

	dash := &models.Dashboard{
		ProfileID:  profile.ID,
		Username:   profile.Username,
		LastSyncAt: profile.LastSyncAt,
		Solved:     []models.DifficultyCount{},
		Languages:  []models.LanguageStat{},
		Tags:       []models.TagStat{},
	}

	counts, err := s.reviewRepo.Counts(ctx, profile.ID, now)
	if err != nil {
		log.Error("failed to count reviews: %v", err)
		return nil, errors.NewInternalError(err)
	}
	dash.Reviews = *counts

	if dash.AnalyzedProblems, err = s.analysisRepo.Count(ctx, profile.ID); err != nil {
		log.Error("failed to count analyses: %v", err)
		return nil, errors.NewInternalError(err)
	}
	dash.PendingSubmissions, err = s.submissionRepo.Count(ctx, models.SubmissionFilter{
		ProfileID: profile.ID,
		Status:    models.AnalysisStatusPending,
	})
	if err != nil {
		log.Error("failed to count pending submissions: %v", err)
		return nil, errors.NewInternalError(err)
	}

	snapshot, err := s.snapshotRepo.Get(ctx, profile.ID)
	if err != nil {
		log.Error("failed to load snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if snapshot == nil {
		log.Debug("no snapshot yet, dashboard has review data only")
		return dash, nil
	}

	var data leetcode.UserData
	if err := json.Unmarshal(snapshot.Data, &data); err != nil {
		log.Error("failed to decode snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	fetchedAt := snapshot.FetchedAt
	dash.SnapshotAt = &fetchedAt

	applySolved(dash, &data)
	dash.AcceptanceRate = acceptanceRate(data.SubmissionStats)
	dash.Languages = languageStats(data.LanguageStats)
	dash.Tags = tagStats(data.SkillStats)

	if data.Calendar != nil {
		dash.Streak = data.Calendar.Streak
		dash.TotalActiveDays = data.Calendar.TotalActiveDays
		days, err := leetcode.ParseSubmissionCalendar(data.Calendar.SubmissionCalendar)
		if err != nil {
			log.Warn("ignoring bad submission calendar: %v", err)
		} else {
			dash.ActiveDaysLast30 = leetcode.ActiveDaysSince(days, now.AddDate(0, 0, -29))
		}
	}

	return dash, nil
}

// applySolved fills solved counts per difficulty, preferring question progress
// and falling back to accepted submission stats.
func applySolved(dash *models.Dashboard, data *leetcode.UserData) {
	solved := make(map[string]int)
	switch {
	case data.Progress != nil:
		for _, c := range data.Progress.NumAcceptedQuestions {
			if d := canonicalDifficulty(c.Difficulty); d != "" {
				solved[d] += c.Count
			}
		}
	case data.SubmissionStats != nil:
		for _, c := range data.SubmissionStats.AcSubmissionNum {
			if d := canonicalDifficulty(c.Difficulty); d != "" {
				solved[d] += c.Count
			}
		}
	}

	totals := make(map[string]int)
	for _, c := range data.AllQuestionsCount {
		if d := canonicalDifficulty(c.Difficulty); d != "" {
			totals[d] = c.Count
		}
	}

	for _, d := range difficultyOrder {
		dash.Solved = append(dash.Solved, models.DifficultyCount{Difficulty: d, Solved: solved[d], Total: totals[d]})
		dash.TotalSolved += solved[d]
	}
}

// acceptanceRate is accepted over total submissions as a percentage with two decimals.
func acceptanceRate(stats *leetcode.SubmissionStats) float64 {
	if stats == nil {
		return 0
	}
	var accepted, total int
	for _, c := range stats.AcSubmissionNum {
		if strings.EqualFold(c.Difficulty, "all") {
			accepted = c.Submissions
		}
	}
	for _, c := range stats.TotalSubmissionNum {
		if strings.EqualFold(c.Difficulty, "all") {
			total = c.Submissions
		}
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(accepted)/float64(total)*10000) / 100
}

func languageStats(in []leetcode.LanguageStat) []models.LanguageStat {
	out := make([]models.LanguageStat, 0, len(in))
	for _, l := range in {
		out = append(out, models.LanguageStat{Language: l.LanguageName, ProblemsSolved: l.ProblemsSolved})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProblemsSolved > out[j].ProblemsSolved })
	return out
}

func tagStats(in *leetcode.TagProblemCounts) []models.TagStat {
	out := []models.TagStat{}
	if in == nil {
		return out
	}
	add := func(level string, tags []leetcode.TagCount) {
		for _, t := range tags {
			out = append(out, models.TagStat{TagName: t.TagName, TagSlug: t.TagSlug, Level: level, ProblemsSolved: t.ProblemsSolved})
		}
	}
	add("fundamental", in.Fundamental)
	add("intermediate", in.Intermediate)
	add("advanced", in.Advanced)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProblemsSolved > out[j].ProblemsSolved })
	return out
}

func canonicalDifficulty(s string) string {
	for _, d := range difficultyOrder {
		if strings.EqualFold(s, d) {
			return d
		}
	}
	return ""
}
