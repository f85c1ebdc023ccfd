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

type ProfileRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProfileRepository
}

func (s *ProfileRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProfileRepository(s.db)
}

func (s *ProfileRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProfileRepositorySuite) TestUpsertIsIdempotent() {
	ctx := context.Background()

	first, err := s.repo.Upsert(ctx, "neetcoder")
	s.Require().NoError(err)
	s.NotZero(first.ID)
	s.Nil(first.LastSyncAt)

	second, err := s.repo.Upsert(ctx, "NeetCoder")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID, "usernames are case-insensitive")

	profiles, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(profiles, 1)
}

func (s *ProfileRepositorySuite) TestGetMissingReturnsNil() {
	p, err := s.repo.Get(context.Background(), 999)
	s.NoError(err)
	s.Nil(p)

	p, err = s.repo.GetByUsername(context.Background(), "nobody")
	s.NoError(err)
	s.Nil(p)
}

func (s *ProfileRepositorySuite) TestUpdateSync() {
	ctx := context.Background()
	p, err := s.repo.Upsert(ctx, "alice")
	s.Require().NoError(err)

	syncedAt := time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC)
	s.Require().NoError(s.repo.UpdateSync(ctx, p.ID, syncedAt))

	got, err := s.repo.Get(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.LastSyncAt)
	s.True(syncedAt.Equal(*got.LastSyncAt))
}

func (s *ProfileRepositorySuite) TestDeleteCascades() {
	ctx := context.Background()
	p, err := s.repo.Upsert(ctx, "bob")
	s.Require().NoError(err)

	subs := sqlite.NewSubmissionRepository(s.db)
	_, err = subs.InsertBatch(ctx, []models.Submission{
		{ProfileID: p.ID, LeetCodeID: "1", Title: "Two Sum", TitleSlug: "two-sum", SubmittedAt: time.Now()},
	})
	s.Require().NoError(err)

	reviews := sqlite.NewConceptReviewRepository(s.db)
	_, err = reviews.Seed(ctx, models.ConceptReview{
		ProfileID: p.ID, ConceptName: "Hash Table", TagSlug: "hash-table", Difficulty: "Easy",
		EaseFactor: 2.5, NextReviewAt: time.Now(),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, p.ID))

	var remaining int
	s.Require().NoError(s.db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM submissions) + (SELECT COUNT(*) FROM concept_reviews)`).Scan(&remaining))
	s.Zero(remaining)

	got, err := s.repo.Get(ctx, p.ID)
	s.NoError(err)
	s.Nil(got)
}

func TestProfileRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProfileRepositorySuite))
}
