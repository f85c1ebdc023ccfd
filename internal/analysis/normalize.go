package analysis

import (
	"strings"
	"time"
	"unicode"

	"github.com/leetloop/leetloop/internal/srs"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	dateLayout      = "2006-01-02"
	defaultCategory = "General"
)

// FallbackConcepts are attached when nothing better is known about a problem.
var FallbackConcepts = []string{"Problem Solving", "Algorithms"}

// BaselineDays is the first recall interval per problem difficulty.
var BaselineDays = map[string]int{
	DifficultyEasy:   7,
	DifficultyMedium: 14,
	DifficultyHard:   30,
}

// Recall interval adjustments, in days.
const (
	adjustRecentSimilar = 7
	adjustCleanSolve    = 5
	adjustStruggled     = -5
	adjustFundamental   = -2
	adjustAdvanced      = 3
	adjustRecentSubmit  = -2
)

var conceptAliases = map[string]string{
	"dp":                   "Dynamic Programming",
	"dynamic programming":  "Dynamic Programming",
	"bfs":                  "Breadth-First Search",
	"breadth first search": "Breadth-First Search",
	"dfs":                  "Depth-First Search",
	"depth first search":   "Depth-First Search",
	"two pointer":          "Two Pointers",
	"two pointers":         "Two Pointers",
	"hashmap":              "Hash Table",
	"hash map":             "Hash Table",
	"hashing":              "Hash Table",
	"hash table":           "Hash Table",
	"heap":                 "Heap (Priority Queue)",
	"priority queue":       "Heap (Priority Queue)",
	"bst":                  "Binary Search Tree",
	"binary search tree":   "Binary Search Tree",
	"sliding window":       "Sliding Window",
	"union find":           "Union Find",
	"disjoint set":         "Union Find",
	"graphs":               "Graph",
	"trees":                "Tree",
	"arrays":               "Array",
	"strings":              "String",
}

var fundamentalConcepts = map[string]bool{
	"Array":        true,
	"String":       true,
	"Hash Table":   true,
	"Math":         true,
	"Sorting":      true,
	"Two Pointers": true,
}

var advancedConcepts = map[string]bool{
	"Dynamic Programming": true,
	"Graph":               true,
	"Backtracking":        true,
	"Trie":                true,
	"Union Find":          true,
	"Segment Tree":        true,
	"Topological Sort":    true,
	"Bitmask":             true,
}

// NormalizeDifficulty maps any casing of easy/medium/hard to its canonical
// form and everything else to fallback, or Medium when fallback is unknown too.
func NormalizeDifficulty(s, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	}
	if fallback != "" && fallback != s {
		return NormalizeDifficulty(fallback, "")
	}
	return DifficultyMedium
}

// NormalizeConcepts trims, canonicalises and de-duplicates concept names.
func NormalizeConcepts(concepts []string) []string {
	seen := make(map[string]bool, len(concepts))
	out := make([]string, 0, len(concepts))
	for _, c := range concepts {
		name := canonicalConcept(c)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func canonicalConcept(c string) string {
	c = strings.Join(strings.Fields(c), " ")
	if c == "" {
		return ""
	}
	if alias, ok := conceptAliases[strings.ToLower(c)]; ok {
		return alias
	}
	return c
}

// ConceptSlug derives a LeetCode-style tag slug, e.g. "Heap (Priority Queue)"
// becomes "heap-priority-queue".
func ConceptSlug(concept string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(concept) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// RecallDays applies the adjustment rules to the difficulty baseline.
// The result is never less than one day.
func RecallDays(in SubmissionInput, difficulty string, concepts []string, now time.Time) int {
	days := BaselineDays[NormalizeDifficulty(difficulty, in.Difficulty)]

	if in.ConceptReusedRecently {
		days += adjustRecentSimilar
	}
	if in.HintsUsed || in.Attempts > 2 {
		days += adjustStruggled
	} else {
		days += adjustCleanSolve
	}

	var fundamental, advanced bool
	for _, c := range concepts {
		fundamental = fundamental || fundamentalConcepts[c]
		advanced = advanced || advancedConcepts[c]
	}
	if fundamental {
		days += adjustFundamental
	}
	if advanced {
		days += adjustAdvanced
	}
	if !in.SubmittedAt.IsZero() && now.Sub(in.SubmittedAt) < 48*time.Hour {
		days += adjustRecentSubmit
	}

	return max(days, 1)
}

// normalize fills every Result field from a decoded analysis, defaulting from
// the input where the model left gaps.
func normalize(raw RawAnalysis, in SubmissionInput, source string, now time.Time) Result {
	concepts := NormalizeConcepts(raw.Concepts)
	if len(concepts) == 0 {
		concepts = append([]string(nil), FallbackConcepts...)
	}
	difficulty := NormalizeDifficulty(raw.Difficulty, in.Difficulty)

	recall, err := time.Parse(dateLayout, strings.TrimSpace(raw.EstimatedNextRecallDate))
	if err != nil || !recall.After(today(now)) {
		recall = srs.DueAt(now, RecallDays(in, difficulty, concepts, now))
	}

	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = defaultCategory
	}
	problem := strings.TrimSpace(raw.Problem)
	if problem == "" {
		problem = in.Problem
	}

	return Result{
		Problem:        problem,
		TitleSlug:      in.TitleSlug,
		Concepts:       concepts,
		Description:    strings.TrimSpace(raw.Description),
		NextRecallDate: recall,
		Reasoning:      strings.TrimSpace(raw.Reasoning),
		Difficulty:     difficulty,
		Category:       category,
		Source:         source,
	}
}

func today(now time.Time) time.Time {
	return srs.DueAt(now, 0)
}
