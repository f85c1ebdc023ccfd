package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/leetloop/leetloop/internal/llm"
)

const systemPrompt = "You are a LeetCode spaced repetition assistant. You answer with pure JSON only, never markdown."

const (
	singleMaxTokens   = 1000
	singleTemperature = 0.5
	batchMaxTokens    = 3000
	batchTemperature  = 0.1
)

var analysisItemSchema = map[string]any{
	"type":     "object",
	"required": []string{"problem", "concepts"},
	"properties": map[string]any{
		"problem": map[string]any{"type": "string"},
		"concepts": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"description":                map[string]any{"type": "string"},
		"estimated_next_recall_date": map[string]any{"type": "string"},
		"reasoning":                  map[string]any{"type": "string"},
		"difficulty":                 map[string]any{"type": "string"},
		"category":                   map[string]any{"type": "string"},
	},
}

var singleSchema = &llm.Schema{
	Name:        "problem_analysis",
	Description: "Concept breakdown and recall date for one problem",
	Definition:  analysisItemSchema,
}

var batchSchema = &llm.Schema{
	Name:        "problem_analysis_batch",
	Description: "Concept breakdowns for several problems",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"analyses"},
		"properties": map[string]any{
			"analyses": map[string]any{
				"type":  "array",
				"items": analysisItemSchema,
			},
		},
	},
}

func singleRequest(in SubmissionInput, now time.Time) llm.Request {
	attempts := max(in.Attempts, 1)
	performance := "Solved independently"
	if in.HintsUsed {
		performance = "Struggled (hints used)"
	}
	pattern := "Less recent practice"
	if in.ConceptReusedRecently {
		pattern = "Recently practiced similar"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "For the problem %q, provide:\n", in.Problem)
	b.WriteString("1. A brief explanation of the solution logic.\n")
	b.WriteString("2. List of core concepts (like DP, sliding window, graphs, two pointers, etc).\n")
	b.WriteString("3. The actual difficulty (Easy/Medium/Hard) based on the problem name and your knowledge.\n")
	b.WriteString("4. The date the user should review the concept again using spaced repetition, taking into account:\n")
	fmt.Fprintf(&b, "   - Submission Date: %s\n", formatDate(in.SubmittedAt, now))
	fmt.Fprintf(&b, "   - Attempts: %d\n", attempts)
	fmt.Fprintf(&b, "   - User Performance: %s\n", performance)
	fmt.Fprintf(&b, "   - Pattern Recognition: %s\n\n", pattern)
	b.WriteString(baselineText)
	fmt.Fprintf(&b, "\nCurrent date: %s\n\n", now.UTC().Format(dateLayout))
	b.WriteString("Return a JSON object in this format:\n")
	b.WriteString(itemTemplate)

	req := llm.UserPrompt(systemPrompt, b.String())
	req.Schema = singleSchema
	req.MaxTokens = singleMaxTokens
	req.Temperature = singleTemperature
	return req
}

func batchRequest(inputs []SubmissionInput, now time.Time) llm.Request {
	type item struct {
		ProblemName    string `json:"problem_name"`
		SubmissionDate string `json:"submission_date"`
	}
	items := make([]item, len(inputs))
	for i, in := range inputs {
		items[i] = item{ProblemName: in.Problem, SubmissionDate: formatDate(in.SubmittedAt, now)}
	}
	listing, _ := json.MarshalIndent(items, "", "  ")

	var b strings.Builder
	b.WriteString("Analyze these LeetCode submissions for spaced repetition.\n\n")
	fmt.Fprintf(&b, "Return EXACTLY %d analyses in the \"analyses\" array. Keep each reasoning field under 50 words.\n\n", len(inputs))
	b.WriteString("BASE INTERVALS: Easy(7d), Medium(14d), Hard(30d)\n")
	b.WriteString("ADJUSTMENTS: Recent similar (+7d), Clean solve (+5d), Fundamental (-2d), Advanced (+3d), Recent submit (-2d)\n\n")
	fmt.Fprintf(&b, "Current date: %s\n\n", now.UTC().Format(dateLayout))
	b.WriteString("Submissions:\n")
	b.Write(listing)
	b.WriteString("\n\nReturn a JSON object in this format:\n{\"analyses\": [")
	b.WriteString(itemTemplate)
	b.WriteString("]}\n")

	req := llm.UserPrompt(systemPrompt, b.String())
	req.Schema = batchSchema
	req.MaxTokens = batchMaxTokens
	req.Temperature = batchTemperature
	return req
}

const baselineText = `Use the spaced repetition baseline:
Easy: 7 days, Medium: 14 days, Hard: 30 days.

ADJUSTMENTS:
- Recently practiced similar concept: +7 days
- Strong mastery (few attempts, no hints): +5 days
- Struggled (hints/multiple attempts): -5 days
- Core fundamental concept: -2 days
- Advanced/compound pattern: +3 days
`

const itemTemplate = `{
  "problem": "<problem name>",
  "concepts": ["<concept1>", "<concept2>"],
  "description": "<short 2-3 sentence explanation>",
  "estimated_next_recall_date": "<YYYY-MM-DD>",
  "reasoning": "<why that recall date>",
  "difficulty": "<Easy|Medium|Hard>",
  "category": "<primary algorithm category>"
}`

func formatDate(t, fallback time.Time) string {
	if t.IsZero() {
		t = fallback
	}
	return t.UTC().Format(dateLayout)
}
