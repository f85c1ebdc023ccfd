package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leetloop/leetloop/internal/models"
	"github.com/leetloop/leetloop/internal/srs"
)

// keywordConcepts maps title keywords to LeetCode tag names. Order matters:
// the first match becomes the category.
var keywordConcepts = []struct {
	keywords []string
	concepts []string
}{
	{[]string{"linked list", "list node"}, []string{"Linked List"}},
	{[]string{"binary search tree", "bst"}, []string{"Binary Search Tree", "Tree"}},
	{[]string{"tree", "ancestor", "inorder", "preorder", "postorder", "depth of"}, []string{"Tree", "Depth-First Search"}},
	{[]string{"island", "graph", "course", "network", "province", "clone"}, []string{"Graph", "Breadth-First Search"}},
	{[]string{"trie", "prefix", "word search", "dictionary"}, []string{"Trie", "String"}},
	{[]string{"subsequence", "stairs", "coin", "robber", "ways", "jump", "edit distance", "partition"}, []string{"Dynamic Programming"}},
	{[]string{"permutation", "combination", "subset", "queens", "generate"}, []string{"Backtracking"}},
	{[]string{"kth", "top k", "median", "frequent", "merge k"}, []string{"Heap (Priority Queue)"}},
	{[]string{"parenthes", "bracket", "stack", "calculator", "temperatures"}, []string{"Stack"}},
	{[]string{"window", "substring"}, []string{"Sliding Window", "String"}},
	{[]string{"rotated", "search insert", "sqrt", "search a", "binary search", "peak"}, []string{"Binary Search"}},
	{[]string{"interval", "meeting", "sort"}, []string{"Sorting", "Array"}},
	{[]string{"palindrome", "container", "3sum", "two sum ii", "remove duplicates"}, []string{"Two Pointers"}},
	{[]string{"sum", "duplicate", "anagram", "pair", "group"}, []string{"Hash Table", "Array"}},
	{[]string{"matrix", "grid", "spiral", "sudoku"}, []string{"Matrix", "Array"}},
	{[]string{"bit", "xor", "single number", "power of"}, []string{"Bit Manipulation"}},
	{[]string{"string", "word", "character", "vowel"}, []string{"String"}},
	{[]string{"integer", "number", "pow", "digit", "prime"}, []string{"Math"}},
	{[]string{"array", "element"}, []string{"Array"}},
}

// HeuristicAnalyzer derives concepts from problem titles and schedules the
// recall date from the difficulty baseline. It never calls out.
type HeuristicAnalyzer struct {
	now func() time.Time
}

func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{now: time.Now}
}

func (h *HeuristicAnalyzer) Analyze(_ context.Context, inputs []SubmissionInput) ([]Result, error) {
	now := h.now()
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, h.analyze(in, now))
	}
	return results, nil
}

func (h *HeuristicAnalyzer) analyze(in SubmissionInput, now time.Time) Result {
	concepts := ConceptsFromTitle(in.Problem)
	category := defaultCategory
	if len(concepts) == 0 {
		concepts = append([]string(nil), FallbackConcepts...)
	} else {
		category = concepts[0]
	}

	difficulty := NormalizeDifficulty(in.Difficulty, "")
	days := RecallDays(in, difficulty, concepts, now)

	return Result{
		Problem:        in.Problem,
		TitleSlug:      in.TitleSlug,
		Concepts:       concepts,
		Description:    fmt.Sprintf("%s practices %s.", in.Problem, strings.Join(concepts, ", ")),
		NextRecallDate: srs.DueAt(now, days),
		Reasoning:      fmt.Sprintf("Difficulty: %s. Base: %d days. Final: %d days.", difficulty, BaselineDays[difficulty], days),
		Difficulty:     difficulty,
		Category:       category,
		Source:         models.AnalysisSourceHeuristic,
	}
}

// ConceptsFromTitle returns the tag names whose keywords appear in title.
func ConceptsFromTitle(title string) []string {
	lower := strings.ToLower(title)
	var concepts []string
	for _, kc := range keywordConcepts {
		for _, kw := range kc.keywords {
			if strings.Contains(lower, kw) {
				concepts = append(concepts, kc.concepts...)
				break
			}
		}
	}
	return NormalizeConcepts(concepts)
}
