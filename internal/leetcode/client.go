package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/leetloop/leetloop/internal/logger"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultGraphQLURL  = "https://leetcode.com/graphql"
	DefaultRecentLimit = 100

	difficultyCacheSize = 4096

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

var (
	// ErrUserNotFound is returned when no user-scoped query succeeded.
	ErrUserNotFound = errors.New("leetcode: user not found or profile unavailable")
	// ErrEmptyUsername is returned for a blank username.
	ErrEmptyUsername = errors.New("leetcode: username is required")
)

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("leetcode: status %d: %s", e.StatusCode, e.Body)
}

// GraphQLError carries the errors array of a GraphQL response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "leetcode: graphql errors: " + strings.Join(e.Messages, "; ")
}

type Client struct {
	httpClient     *http.Client
	endpoint       string
	recentLimit    int
	maxConcurrency int
	now            func() time.Time
	// A problem's difficulty does not change, so lookups are kept without expiry.
	difficulties *lru.Cache[string, string]
}

// Option configures a Client.
type Option func(*Client)

func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRecentLimit sets how many recent accepted submissions are requested.
func WithRecentLimit(n int) Option {
	return func(c *Client) { c.recentLimit = n }
}

// WithMaxConcurrency bounds the number of GraphQL queries in flight per fetch.
func WithMaxConcurrency(n int) Option {
	return func(c *Client) { c.maxConcurrency = n }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		endpoint:       DefaultGraphQLURL,
		recentLimit:    DefaultRecentLimit,
		maxConcurrency: 4,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.difficulties, _ = lru.New[string, string](difficultyCacheSize)
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query posts one GraphQL request and decodes its data object into out.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://leetcode.com/")
	req.Header.Set("Origin", "https://leetcode.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var gql graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gql); err != nil {
		return fmt.Errorf("leetcode: decode response: %w", err)
	}
	if len(gql.Errors) > 0 {
		msgs := make([]string, 0, len(gql.Errors))
		for _, e := range gql.Errors {
			msgs = append(msgs, e.Message)
		}
		return &GraphQLError{Messages: msgs}
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return errors.New("leetcode: empty data")
	}
	return json.Unmarshal(gql.Data, out)
}

type section struct {
	name     string
	userData bool
	run      func(ctx context.Context, data *UserData) error
}

func (c *Client) sections(username string) []section {
	user := map[string]any{"userSlug": username}

	return []section{
		{SectionProgress, true, func(ctx context.Context, data *UserData) error {
			var out struct {
				Progress *QuestionProgress `json:"userProfileUserQuestionProgressV2"`
			}
			if err := c.query(ctx, questionProgressQuery, user, &out); err != nil {
				return err
			}
			if out.Progress == nil {
				return ErrUserNotFound
			}
			data.Progress = out.Progress
			return nil
		}},
		{SectionCalendar, true, func(ctx context.Context, data *UserData) error {
			var out struct {
				Calendar *Calendar `json:"userProfileCalendar"`
			}
			vars := map[string]any{"userSlug": username, "year": c.now().Year()}
			if err := c.query(ctx, calendarQuery, vars, &out); err != nil {
				return err
			}
			if out.Calendar == nil {
				return ErrUserNotFound
			}
			data.Calendar = out.Calendar
			return nil
		}},
		{SectionSubmissionStats, true, func(ctx context.Context, data *UserData) error {
			var out struct {
				Stats *SubmissionStats `json:"userProfileUserQuestionSubmissionStats"`
			}
			if err := c.query(ctx, submissionStatsQuery, user, &out); err != nil {
				return err
			}
			if out.Stats == nil {
				return ErrUserNotFound
			}
			data.SubmissionStats = out.Stats
			return nil
		}},
		{SectionSkillStats, true, func(ctx context.Context, data *UserData) error {
			var out struct {
				Skill *struct {
					TagProblemCounts *TagProblemCounts `json:"tagProblemCounts"`
				} `json:"skillStats"`
			}
			if err := c.query(ctx, skillStatsQuery, user, &out); err != nil {
				return err
			}
			if out.Skill == nil || out.Skill.TagProblemCounts == nil {
				return ErrUserNotFound
			}
			data.SkillStats = out.Skill.TagProblemCounts
			return nil
		}},
		{SectionLanguageStats, true, func(ctx context.Context, data *UserData) error {
			var out struct {
				Languages *[]LanguageStat `json:"languageStats"`
			}
			if err := c.query(ctx, languageStatsQuery, user, &out); err != nil {
				return err
			}
			if out.Languages == nil {
				return ErrUserNotFound
			}
			data.LanguageStats = *out.Languages
			return nil
		}},
		{SectionAllQuestionsCount, false, func(ctx context.Context, data *UserData) error {
			var out struct {
				Counts []DifficultyCount `json:"allQuestionsCount"`
			}
			if err := c.query(ctx, allQuestionsCountQuery, nil, &out); err != nil {
				return err
			}
			data.AllQuestionsCount = out.Counts
			return nil
		}},
		{SectionRecentSubmissions, true, func(ctx context.Context, data *UserData) error {
			var out struct {
				Recent *[]RecentSubmission `json:"recentAcSubmissionList"`
			}
			vars := map[string]any{"userSlug": username, "limit": c.recentLimit}
			if err := c.query(ctx, recentSubmissionsQuery, vars, &out); err != nil {
				return err
			}
			if out.Recent == nil {
				return ErrUserNotFound
			}
			data.RecentSubmissions = *out.Recent
			return nil
		}},
	}
}

// FetchUserData runs every profile query concurrently. Individual failures are
// recorded in UserData.Failed; it only errors when no user-scoped query succeeded.
func (c *Client) FetchUserData(ctx context.Context, username string) (*UserData, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	log := logger.FromContext(ctx).WithPrefix("leetcode").WithField("username", username)
	log.Debug("fetching user data")
	start := time.Now()

	sections := c.sections(username)
	results := make([]*UserData, len(sections))
	errs := make([]error, len(sections))

	var g errgroup.Group
	g.SetLimit(max(c.maxConcurrency, 1))
	for i, s := range sections {
		g.Go(func() error {
			partial := &UserData{}
			if err := s.run(ctx, partial); err != nil {
				errs[i] = err
				return nil
			}
			results[i] = partial
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := &UserData{Username: username, FetchedAt: c.now().UTC()}
	var (
		userFailures []error
		userOK       bool
	)
	for i, s := range sections {
		if errs[i] != nil {
			log.Warn("query %s failed: %v", s.name, errs[i])
			data.Failed = append(data.Failed, s.name)
			if s.userData {
				userFailures = append(userFailures, fmt.Errorf("%s: %w", s.name, errs[i]))
			}
			continue
		}
		if s.userData {
			userOK = true
		}
		merge(data, results[i])
	}

	if !userOK {
		log.Error("all user queries failed in %v", time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrUserNotFound, errors.Join(userFailures...))
	}

	log.Info("fetched user data in %v (%d recent submissions, %d failed sections)",
		time.Since(start), len(data.RecentSubmissions), len(data.Failed))
	return data, nil
}

func merge(dst, src *UserData) {
	if src.Progress != nil {
		dst.Progress = src.Progress
	}
	if src.Calendar != nil {
		dst.Calendar = src.Calendar
	}
	if src.SubmissionStats != nil {
		dst.SubmissionStats = src.SubmissionStats
	}
	if src.SkillStats != nil {
		dst.SkillStats = src.SkillStats
	}
	if src.LanguageStats != nil {
		dst.LanguageStats = src.LanguageStats
	}
	if src.AllQuestionsCount != nil {
		dst.AllQuestionsCount = src.AllQuestionsCount
	}
	if src.RecentSubmissions != nil {
		dst.RecentSubmissions = src.RecentSubmissions
	}
}

// QuestionDifficulties looks up the difficulty of each distinct slug. Failed
// lookups are logged and omitted; an error is returned only when ctx is done.
func (c *Client) QuestionDifficulties(ctx context.Context, slugs []string) (map[string]string, error) {
	log := logger.FromContext(ctx).WithPrefix("leetcode")

	out := make(map[string]string, len(slugs))
	var missing []string
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if _, seen := out[slug]; seen {
			continue
		}
		if d, ok := c.difficulties.Get(slug); ok {
			out[slug] = d
			continue
		}
		out[slug] = ""
		missing = append(missing, slug)
	}

	found := make([]string, len(missing))
	var g errgroup.Group
	g.SetLimit(max(c.maxConcurrency, 1))
	for i, slug := range missing {
		g.Go(func() error {
			var resp struct {
				Question *struct {
					Difficulty string `json:"difficulty"`
				} `json:"question"`
			}
			err := c.query(ctx, questionDifficultyQuery, map[string]any{"titleSlug": slug}, &resp)
			switch {
			case err != nil:
				log.Warn("difficulty lookup for %s failed: %v", slug, err)
			case resp.Question == nil || resp.Question.Difficulty == "":
				log.Warn("no difficulty for %s", slug)
			default:
				found[i] = resp.Question.Difficulty
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, slug := range missing {
		if found[i] == "" {
			delete(out, slug)
			continue
		}
		c.difficulties.Add(slug, found[i])
		out[slug] = found[i]
	}
	log.Debug("resolved %d difficulties (%d fetched)", len(out), len(missing))
	return out, nil
}
