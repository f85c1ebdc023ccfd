package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
	"github.com/leetloop/leetloop/internal/repository/sqlite"
	"github.com/leetloop/leetloop/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type AnalysisRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.AnalysisRepository
	profileID int64
}

func (s *AnalysisRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAnalysisRepository(s.db)

	p, err := sqlite.NewProfileRepository(s.db).Upsert(context.Background(), "testuser")
	s.Require().NoError(err)
	s.profileID = p.ID
}

func (s *AnalysisRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *AnalysisRepositorySuite) analysis(slug string, concepts ...string) models.ProblemAnalysis {
	return models.ProblemAnalysis{
		ProfileID:      s.profileID,
		TitleSlug:      slug,
		Problem:        slug,
		Concepts:       concepts,
		Description:    "desc",
		NextRecallDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Reasoning:      "because",
		Difficulty:     "Medium",
		Category:       "Arrays",
		Source:         models.AnalysisSourceLLM,
	}
}

func (s *AnalysisRepositorySuite) TestUpsertKeepsOneRowPerProblem() {
	ctx := context.Background()

	id1, err := s.repo.Upsert(ctx, s.analysis("two-sum", "Hash Table"))
	s.Require().NoError(err)

	updated := s.analysis("two-sum", "Hash Table", "Array")
	updated.Difficulty = "Easy"
	id2, err := s.repo.Upsert(ctx, updated)
	s.Require().NoError(err)
	s.Equal(id1, id2)

	got, err := s.repo.GetBySlug(ctx, s.profileID, "two-sum")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal([]string{"Hash Table", "Array"}, got.Concepts)
	s.Equal("Easy", got.Difficulty)
	s.True(got.NextRecallDate.Equal(updated.NextRecallDate))

	count, err := s.repo.Count(ctx, s.profileID)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *AnalysisRepositorySuite) TestNilConceptsStoredAsEmpty() {
	ctx := context.Background()
	_, err := s.repo.Upsert(ctx, s.analysis("lru-cache"))
	s.Require().NoError(err)

	got, err := s.repo.GetBySlug(ctx, s.profileID, "lru-cache")
	s.Require().NoError(err)
	s.NotNil(got.Concepts)
	s.Empty(got.Concepts)
}

func (s *AnalysisRepositorySuite) TestListFiltersByConcept() {
	ctx := context.Background()
	_, err := s.repo.Upsert(ctx, s.analysis("two-sum", "Hash Table", "Array"))
	s.Require().NoError(err)
	_, err = s.repo.Upsert(ctx, s.analysis("binary-search", "Binary Search"))
	s.Require().NoError(err)

	got, err := s.repo.List(ctx, models.AnalysisFilter{ProfileID: s.profileID, Concept: "hash table"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("two-sum", got[0].TitleSlug)

	all, err := s.repo.List(ctx, models.AnalysisFilter{ProfileID: s.profileID, Category: "Arrays"})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *AnalysisRepositorySuite) TestGetBySlugMissing() {
	got, err := s.repo.GetBySlug(context.Background(), s.profileID, "missing")
	s.NoError(err)
	s.Nil(got)
}

func TestAnalysisRepositorySuite(t *testing.T) {
	suite.Run(t, new(AnalysisRepositorySuite))
}
