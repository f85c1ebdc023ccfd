package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leetloop/leetloop/internal/analysis"
	"github.com/leetloop/leetloop/internal/leetcode"
	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/repository"
	"github.com/leetloop/leetloop/internal/repository/sqlite"
	"github.com/leetloop/leetloop/internal/services"
	"github.com/leetloop/leetloop/internal/testutil"
	"github.com/leetloop/leetloop/internal/testutil/mocks"
	"github.com/leetloop/leetloop/internal/worker"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var apiNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type readyFunc func(ctx context.Context) error

func (f readyFunc) Ready(ctx context.Context) error { return f(ctx) }

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type APISuite struct {
	suite.Suite

	db       *sql.DB
	client   *mocks.MockLeetCodeClient
	queue    *mocks.MockJobQueue
	profiles repository.ProfileRepository
	reviews  repository.ConceptReviewRepository
	handler  http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.client = new(mocks.MockLeetCodeClient)
	s.queue = new(mocks.MockJobQueue)

	s.profiles = sqlite.NewProfileRepository(s.db)
	submissions := sqlite.NewSubmissionRepository(s.db)
	analyses := sqlite.NewAnalysisRepository(s.db)
	s.reviews = sqlite.NewConceptReviewRepository(s.db)
	snapshots := sqlite.NewSnapshotRepository(s.db)

	server := &Server{
		ProfileService:  services.NewProfileService(s.profiles),
		SyncService:     services.NewSyncService(s.client, s.profiles, submissions, snapshots),
		AnalysisService: services.NewAnalysisService(submissions, analyses, s.reviews, analysis.NewHeuristicAnalyzer(), 15),
		ReviewService:   services.NewReviewService(s.reviews),
		StatsService:    services.NewStatsService(snapshots, s.reviews, analyses, submissions),
		JobQueue:        s.queue,
		DB:              readyFunc(func(context.Context) error { return nil }),
		Now:             func() time.Time { return apiNow },
	}
	s.handler = server.Routes()
}

func (s *APISuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *APISuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp errorResponse
	s.decode(rec, &resp)
	return resp.Error.Code
}

func (s *APISuite) createProfile(username string) models.Profile {
	rec := s.do(http.MethodPost, "/api/profiles", map[string]string{"username": username})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var p models.Profile
	s.decode(rec, &p)
	return p
}

func (s *APISuite) seedReview(profileID int64, tag string) *models.ConceptReview {
	solved := apiNow.Add(-48 * time.Hour)
	review, err := s.reviews.Seed(context.Background(), models.ConceptReview{
		ProfileID:    profileID,
		ConceptName:  tag,
		TagSlug:      analysis.ConceptSlug(tag),
		Difficulty:   "Medium",
		EaseFactor:   2.5,
		LastSolvedAt: &solved,
		NextReviewAt: apiNow.Add(-time.Hour),
	})
	s.Require().NoError(err)
	return review
}

func (s *APISuite) TestHealthAndReady() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestReady_DatabaseDown() {
	server := &Server{DB: readyFunc(func(context.Context) error { return stderrors.New("locked") })}
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *APISuite) TestProfiles_CRUD() {
	p := s.createProfile("alice")
	s.NotZero(p.ID)

	rec := s.do(http.MethodGet, "/api/profiles", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list listResponse[models.Profile]
	s.decode(rec, &list)
	s.Equal(1, list.Total)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d", p.ID), nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/profiles/%d", p.ID), nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d", p.ID), nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.errorCode(rec))
}

func (s *APISuite) TestProfiles_BadInput() {
	rec := s.do(http.MethodPost, "/api/profiles", map[string]string{"username": "no spaces allowed"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/api/profiles", `{"username": "bob", "extra": 1}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("BAD_REQUEST", s.errorCode(rec))

	rec = s.do(http.MethodGet, "/api/profiles/abc", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/nothing-here", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestSync_ThenAnalyze() {
	p := s.createProfile("alice")

	s.client.On("FetchUserData", mock.Anything, "alice").Return(&leetcode.UserData{
		Username:  "alice",
		FetchedAt: apiNow,
		RecentSubmissions: []leetcode.RecentSubmission{
			{ID: "1", Title: "Two Sum", TitleSlug: "two-sum", Lang: "golang", Timestamp: fmt.Sprint(apiNow.Add(-72 * time.Hour).Unix())},
			{ID: "2", Title: "Valid Parentheses", TitleSlug: "valid-parentheses", Lang: "golang", Timestamp: fmt.Sprint(apiNow.Add(-80 * time.Hour).Unix())},
		},
	}, nil)
	s.client.On("QuestionDifficulties", mock.Anything, []string{"two-sum", "valid-parentheses"}).
		Return(map[string]string{"two-sum": "Easy", "valid-parentheses": "Easy"}, nil)
	s.queue.On("EnqueueAnalysis", p.ID).Return(nil)

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/profiles/%d/sync", p.ID), nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var synced struct {
		NewSubmissions int  `json:"new_submissions"`
		AnalysisQueued bool `json:"analysis_queued"`
	}
	s.decode(rec, &synced)
	s.Equal(2, synced.NewSubmissions)
	s.True(synced.AnalysisQueued)
	s.queue.AssertExpectations(s.T())

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/profiles/%d/analyze", p.ID), nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var analyzed services.AnalysisResult
	s.decode(rec, &analyzed)
	s.Equal(2, analyzed.Analyzed)
	s.Positive(analyzed.ReviewsSeeded)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/submissions?status=completed", p.ID), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var subs listResponse[models.Submission]
	s.decode(rec, &subs)
	s.Equal(2, subs.Total)
	for _, sub := range subs.Items {
		s.Equal("Easy", sub.Difficulty)
	}

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/reviews?tag=stack", p.ID), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var reviews listResponse[models.ConceptReview]
	s.decode(rec, &reviews)
	s.Require().Len(reviews.Items, 1)
	s.Equal("Stack", reviews.Items[0].ConceptName)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/dashboard", p.ID), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var dash models.Dashboard
	s.decode(rec, &dash)
	s.Equal(1, reviews.Total)
	s.Equal(2, dash.AnalyzedProblems)
	s.NotNil(dash.SnapshotAt)
}

func (s *APISuite) TestSync_AsyncQueueFull() {
	p := s.createProfile("alice")
	s.queue.On("EnqueueSync", p.ID, false).Return(worker.ErrQueueFull)

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/profiles/%d/sync?async=true", p.ID), nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("BUSY", s.errorCode(rec))
}

func (s *APISuite) TestSync_Async() {
	p := s.createProfile("alice")
	s.queue.On("EnqueueSync", p.ID, false).Return(nil)

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/profiles/%d/sync?async=1", p.ID), nil)
	s.Equal(http.StatusAccepted, rec.Code)
	s.client.AssertNotCalled(s.T(), "FetchUserData", mock.Anything, mock.Anything)
}

func (s *APISuite) TestSync_AsyncRefresh() {
	p := s.createProfile("alice")
	s.queue.On("EnqueueSync", p.ID, true).Return(nil)

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/profiles/%d/sync?async=true&refresh=true", p.ID), nil)
	s.Equal(http.StatusAccepted, rec.Code)
	s.queue.AssertCalled(s.T(), "EnqueueSync", p.ID, true)
	s.client.AssertNotCalled(s.T(), "Invalidate", mock.Anything)
}

func (s *APISuite) TestSync_UnknownLeetCodeUser() {
	p := s.createProfile("ghost")
	s.client.On("FetchUserData", mock.Anything, "ghost").Return(nil, leetcode.ErrUserNotFound)

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/profiles/%d/sync", p.ID), nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.queue.AssertNotCalled(s.T(), "EnqueueAnalysis", mock.Anything)
}

func (s *APISuite) TestRateReview() {
	p := s.createProfile("alice")
	review := s.seedReview(p.ID, "Dynamic Programming")

	path := fmt.Sprintf("/api/profiles/%d/reviews/%d/rate", p.ID, review.ID)
	rec := s.do(http.MethodPost, path, map[string]int{"rating": 5})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var rated models.ConceptReview
	s.decode(rec, &rated)
	s.Equal(1, rated.IntervalDays)
	s.InDelta(2.6, rated.EaseFactor, 1e-9)
	s.Equal(1, rated.Mastery)
	s.Equal(1, rated.RepetitionCount)
	s.Equal(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), rated.NextReviewAt.UTC())

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/reviews/%d/history", p.ID, review.ID), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var history struct {
		History []models.ReviewHistory `json:"history"`
	}
	s.decode(rec, &history)
	s.Require().Len(history.History, 1)
	s.Equal(5, history.History[0].Rating)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/reviews?due=true", p.ID), nil)
	var due listResponse[models.ConceptReview]
	s.decode(rec, &due)
	s.Empty(due.Items)
}

func (s *APISuite) TestRateReview_Errors() {
	p := s.createProfile("alice")
	other := s.createProfile("bob")
	review := s.seedReview(p.ID, "Graph")
	path := fmt.Sprintf("/api/profiles/%d/reviews/%d/rate", p.ID, review.ID)

	rec := s.do(http.MethodPost, path, map[string]int{"rating": 6})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(rec))

	rec = s.do(http.MethodPost, path, `{}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, path, nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/profiles/%d/reviews/%d/rate", other.ID, review.ID), map[string]int{"rating": 4})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestReviews_InvalidQuery() {
	p := s.createProfile("alice")

	rec := s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/reviews?difficulty=extreme", p.ID), nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/reviews?limit=0", p.ID), nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/reviews?due=maybe", p.ID), nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestNextReview() {
	rec := s.do(http.MethodPost, "/api/srs/next-review", map[string]any{"interval": 6, "ease_factor": 2.5, "rating": 5})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		NewInterval   int       `json:"new_interval"`
		NewEaseFactor float64   `json:"new_ease_factor"`
		DueAt         time.Time `json:"due_at"`
	}
	s.decode(rec, &resp)
	s.Equal(15, resp.NewInterval)
	s.InDelta(2.6, resp.NewEaseFactor, 1e-9)
	s.Equal(time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC), resp.DueAt)

	tests := []struct {
		name string
		body any
	}{
		{"missing rating", map[string]any{"interval": 6, "ease_factor": 2.5}},
		{"rating out of range", map[string]any{"interval": 6, "ease_factor": 2.5, "rating": 9}},
		{"ease below floor", map[string]any{"interval": 6, "ease_factor": 1.1, "rating": 3}},
		{"negative interval", map[string]any{"interval": -2, "ease_factor": 2.5, "rating": 3}},
		{"interval past a century", map[string]any{"interval": 10000000, "ease_factor": 2.5, "rating": 5}},
		{"huge ease", map[string]any{"interval": 1000000000, "ease_factor": 1e12, "rating": 5}},
		{"ease above cap", map[string]any{"interval": 6, "ease_factor": 10.5, "rating": 5}},
		{"not json", "rating=5"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/api/srs/next-review", tt.body)
			s.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
			s.NotEmpty(s.errorCode(rec))
		})
	}

	rec = s.do(http.MethodPost, "/api/srs/next-review", map[string]any{"interval": 36500, "ease_factor": 10, "rating": 5})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.decode(rec, &resp)
	s.Equal(365000, resp.NewInterval)
	s.Equal(3025, resp.DueAt.Year())
}

func (s *APISuite) TestDifficulty() {
	rec := s.do(http.MethodPost, "/api/srs/difficulty", map[string]any{"current_difficulty": 5, "was_correct": true})
	s.Require().Equal(http.StatusOK, rec.Code)
	var resp map[string]int
	s.decode(rec, &resp)
	s.Equal(5, resp["new_difficulty"])

	rec = s.do(http.MethodPost, "/api/srs/difficulty", map[string]any{"current_difficulty": 3})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/srs/difficulty", map[string]any{"current_difficulty": 8, "was_correct": false})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	h := rateLimitMiddleware(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// burst of two per client
	require.Equal(t, http.StatusNoContent, send("10.0.0.1:1000"))
	require.Equal(t, http.StatusNoContent, send("10.0.0.1:1001"))
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	require.Equal(t, http.StatusNoContent, send("10.0.0.2:1000"))
}

func TestClientLimiters_RenewOnUse(t *testing.T) {
	limiters := newClientLimiters(1, 100*time.Millisecond)

	first := limiters.get("10.0.0.1")
	require.True(t, first.Allow())
	require.True(t, first.Allow())
	require.False(t, first.Allow())

	// Each lookup pushes expiry out, so a client that keeps calling keeps its
	// drained bucket.
	time.Sleep(60 * time.Millisecond)
	require.Same(t, first, limiters.get("10.0.0.1"))
	time.Sleep(60 * time.Millisecond)
	require.Same(t, first, limiters.get("10.0.0.1"))

	// Idle past the TTL: a fresh bucket.
	time.Sleep(150 * time.Millisecond)
	require.NotSame(t, first, limiters.get("10.0.0.1"))
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]time.Time{"due_at": time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
