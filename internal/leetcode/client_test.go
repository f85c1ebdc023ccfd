package leetcode_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leetloop/leetloop/internal/leetcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// fakeLeetCode answers each query by operation; failing names return HTTP 500.
func fakeLeetCode(t *testing.T, failing ...string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32

	responses := map[string]string{
		"userProfileUserQuestionProgressV2": `{"userProfileUserQuestionProgressV2":{"totalQuestionBeatsPercentage":71.5,
			"numAcceptedQuestions":[{"difficulty":"EASY","count":40},{"difficulty":"MEDIUM","count":25},{"difficulty":"HARD","count":5}],
			"numFailedQuestions":[],"numUntouchedQuestions":[],"userSessionBeatsPercentage":[]}}`,
		"userProfileCalendar": `{"userProfileCalendar":{"activeYears":[2026],"streak":4,"totalActiveDays":52,
			"submissionCalendar":"{\"1780272000\": 3, \"1780185600\": 1}"}}`,
		"userProfileUserQuestionSubmissionStats": `{"userProfileUserQuestionSubmissionStats":{
			"totalSubmissionNum":[{"difficulty":"All","count":90,"submissions":200}],
			"acSubmissionNum":[{"difficulty":"All","count":70,"submissions":120}]}}`,
		"skillStats": `{"skillStats":{"tagProblemCounts":{"advanced":[{"tagName":"Dynamic Programming","tagSlug":"dynamic-programming","problemsSolved":8}],
			"intermediate":[{"tagName":"Hash Table","tagSlug":"hash-table","problemsSolved":20}],
			"fundamental":[{"tagName":"Array","tagSlug":"array","problemsSolved":50}]}}}`,
		"languageStats":      `{"languageStats":[{"languageName":"Go","problemsSolved":60}]}`,
		"allQuestionsCount":  `{"allQuestionsCount":[{"difficulty":"All","count":3500},{"difficulty":"Easy","count":880}]}`,
		"recentAcSubmissions": `{"recentAcSubmissionList":[{"id":"101","title":"Two Sum","titleSlug":"two-sum","lang":"golang","timestamp":"1780272000"}]}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "https://leetcode.com/", r.Header.Get("Referer"))
		assert.Equal(t, "https://leetcode.com", r.Header.Get("Origin"))

		var req gqlRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		for op, data := range responses {
			if !strings.Contains(req.Query, "query "+op+"(") && !strings.Contains(req.Query, "query "+op+" ") {
				continue
			}
			for _, f := range failing {
				if f == op {
					http.Error(w, "boom", http.StatusInternalServerError)
					return
				}
			}
			if op == "userProfileCalendar" {
				assert.EqualValues(t, 2026, req.Variables["year"])
			}
			if op == "recentAcSubmissions" {
				assert.EqualValues(t, 25, req.Variables["limit"])
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":` + data + `}`))
			return
		}
		t.Errorf("unexpected query: %s", req.Query)
		http.Error(w, "unknown", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newClient(url string) *leetcode.Client {
	return leetcode.New(
		leetcode.WithEndpoint(url),
		leetcode.WithRecentLimit(25),
		leetcode.WithMaxConcurrency(2),
		leetcode.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestFetchUserData_AllSections(t *testing.T) {
	srv, calls := fakeLeetCode(t)

	data, err := newClient(srv.URL).FetchUserData(context.Background(), " alice ")
	require.NoError(t, err)

	assert.Equal(t, int32(7), atomic.LoadInt32(calls))
	assert.Equal(t, "alice", data.Username)
	assert.True(t, data.Complete())
	assert.Equal(t, fixedNow, data.FetchedAt)
	require.NotNil(t, data.Progress)
	assert.Len(t, data.Progress.NumAcceptedQuestions, 3)
	require.NotNil(t, data.Calendar)
	assert.Equal(t, 4, data.Calendar.Streak)
	require.NotNil(t, data.SkillStats)
	assert.Equal(t, "dynamic-programming", data.SkillStats.Advanced[0].TagSlug)
	assert.Equal(t, "Go", data.LanguageStats[0].LanguageName)
	assert.Len(t, data.AllQuestionsCount, 2)
	require.Len(t, data.RecentSubmissions, 1)

	at, err := data.RecentSubmissions[0].SubmittedAt()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1780272000, 0).UTC(), at)
}

func TestFetchUserData_PartialFailure(t *testing.T) {
	srv, _ := fakeLeetCode(t, "skillStats", "allQuestionsCount")

	data, err := newClient(srv.URL).FetchUserData(context.Background(), "alice")
	require.NoError(t, err)

	assert.False(t, data.Complete())
	assert.ElementsMatch(t, []string{leetcode.SectionSkillStats, leetcode.SectionAllQuestionsCount}, data.Failed)
	assert.Nil(t, data.SkillStats)
	assert.Nil(t, data.AllQuestionsCount)
	assert.NotNil(t, data.Calendar)
}

func TestFetchUserData_AllUserQueriesFail(t *testing.T) {
	srv, _ := fakeLeetCode(t,
		"userProfileUserQuestionProgressV2", "userProfileCalendar", "userProfileUserQuestionSubmissionStats",
		"skillStats", "languageStats", "recentAcSubmissions")

	_, err := newClient(srv.URL).FetchUserData(context.Background(), "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, leetcode.ErrUserNotFound)

	var statusErr *leetcode.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestFetchUserData_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.Query, "query allQuestionsCount ") {
			_, _ = w.Write([]byte(`{"data":{"allQuestionsCount":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"That user does not exist."}]}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).FetchUserData(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, leetcode.ErrUserNotFound)

	var gqlErr *leetcode.GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Contains(t, gqlErr.Messages, "That user does not exist.")
}

func TestFetchUserData_EmptyUsername(t *testing.T) {
	_, err := leetcode.New().FetchUserData(context.Background(), "  ")
	assert.ErrorIs(t, err, leetcode.ErrEmptyUsername)
}

func TestFetchUserData_ContextCanceled(t *testing.T) {
	srv, _ := fakeLeetCode(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(srv.URL).FetchUserData(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuestionDifficulties(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "query questionDifficulty(")

		w.Header().Set("Content-Type", "application/json")
		switch req.Variables["titleSlug"] {
		case "two-sum":
			_, _ = w.Write([]byte(`{"data":{"question":{"difficulty":"Easy"}}}`))
		case "lru-cache":
			_, _ = w.Write([]byte(`{"data":{"question":{"difficulty":"Medium"}}}`))
		case "gone":
			_, _ = w.Write([]byte(`{"data":{"question":null}}`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	client := newClient(srv.URL)
	ctx := context.Background()

	got, err := client.QuestionDifficulties(ctx, []string{"two-sum", "lru-cache", "two-sum", "gone", "broken", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"two-sum": "Easy", "lru-cache": "Medium"}, got)
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))

	// Resolved slugs are served from memory; unresolved ones are retried.
	got, err = client.QuestionDifficulties(ctx, []string{"two-sum", "gone"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"two-sum": "Easy"}, got)
	assert.EqualValues(t, 5, atomic.LoadInt32(&calls))
}

func TestQuestionDifficulties_Cancelled(t *testing.T) {
	srv, _ := fakeLeetCode(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(srv.URL).QuestionDifficulties(ctx, []string{"two-sum"})
	assert.ErrorIs(t, err, context.Canceled)
}
