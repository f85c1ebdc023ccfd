package leetcode

import (
	"strconv"
	"time"
)

// Section names reported in UserData.Failed.
const (
	SectionProgress          = "progress"
	SectionCalendar          = "calendar"
	SectionSubmissionStats   = "submission_stats"
	SectionSkillStats        = "skill_stats"
	SectionLanguageStats     = "language_stats"
	SectionAllQuestionsCount = "all_questions_count"
	SectionRecentSubmissions = "recent_submissions"
)

// UserData is everything fetched for one user. A section that failed to load
// is left empty and its name is listed in Failed.
type UserData struct {
	Username          string             `json:"username"`
	Progress          *QuestionProgress  `json:"progress,omitempty"`
	Calendar          *Calendar          `json:"calendar,omitempty"`
	SubmissionStats   *SubmissionStats   `json:"submission_stats,omitempty"`
	SkillStats        *TagProblemCounts  `json:"skill_stats,omitempty"`
	LanguageStats     []LanguageStat     `json:"language_stats,omitempty"`
	AllQuestionsCount []DifficultyCount  `json:"all_questions_count,omitempty"`
	RecentSubmissions []RecentSubmission `json:"recent_submissions,omitempty"`
	Failed            []string           `json:"failed,omitempty"`
	FetchedAt         time.Time          `json:"fetched_at"`
}

// Complete reports whether every section loaded.
func (u *UserData) Complete() bool {
	return len(u.Failed) == 0
}

type DifficultyCount struct {
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type DifficultyPercentage struct {
	Difficulty string   `json:"difficulty"`
	Percentage *float64 `json:"percentage"`
}

type QuestionProgress struct {
	TotalQuestionBeatsPercentage *float64               `json:"totalQuestionBeatsPercentage"`
	NumAcceptedQuestions         []DifficultyCount      `json:"numAcceptedQuestions"`
	NumFailedQuestions           []DifficultyCount      `json:"numFailedQuestions"`
	NumUntouchedQuestions        []DifficultyCount      `json:"numUntouchedQuestions"`
	UserSessionBeatsPercentage   []DifficultyPercentage `json:"userSessionBeatsPercentage"`
}

type Calendar struct {
	ActiveYears        []int  `json:"activeYears"`
	Streak             int    `json:"streak"`
	TotalActiveDays    int    `json:"totalActiveDays"`
	SubmissionCalendar string `json:"submissionCalendar"`
}

type SubmissionCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

type SubmissionStats struct {
	TotalSubmissionNum []SubmissionCount `json:"totalSubmissionNum"`
	AcSubmissionNum    []SubmissionCount `json:"acSubmissionNum"`
}

type TagCount struct {
	TagName        string `json:"tagName"`
	TagSlug        string `json:"tagSlug"`
	ProblemsSolved int    `json:"problemsSolved"`
}

type TagProblemCounts struct {
	Advanced     []TagCount `json:"advanced"`
	Intermediate []TagCount `json:"intermediate"`
	Fundamental  []TagCount `json:"fundamental"`
}

type LanguageStat struct {
	LanguageName   string `json:"languageName"`
	ProblemsSolved int    `json:"problemsSolved"`
}

type RecentSubmission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Lang      string `json:"lang"`
	Timestamp string `json:"timestamp"`
}

// SubmittedAt parses the unix-seconds timestamp LeetCode returns as a string.
func (s RecentSubmission) SubmittedAt() (time.Time, error) {
	secs, err := strconv.ParseInt(s.Timestamp, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}
