package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RawAnalysis is the wire shape the model is asked to produce.
type RawAnalysis struct {
	Problem                 string   `json:"problem"`
	Concepts                []string `json:"concepts"`
	Description             string   `json:"description"`
	EstimatedNextRecallDate string   `json:"estimated_next_recall_date"`
	Reasoning               string   `json:"reasoning"`
	Difficulty              string   `json:"difficulty"`
	Category                string   `json:"category"`
}

// ErrMalformedOutput is returned when model output cannot be decoded even
// after cleanup and repair.
type ErrMalformedOutput struct {
	Raw string
	Err error
}

func (e *ErrMalformedOutput) Error() string {
	return fmt.Sprintf("malformed analysis output: %v", e.Err)
}

func (e *ErrMalformedOutput) Unwrap() error { return e.Err }

var errNoAnalyses = errors.New("no analyses found")

// ParseAnalyses decodes model output into analyses. It strips markdown fences,
// accepts a single object, an array, or an object wrapping an "analyses"
// array, and salvages the complete elements of a truncated array.
func ParseAnalyses(raw string) ([]RawAnalysis, error) {
	text := stripFences(raw)
	if text == "" {
		return nil, &ErrMalformedOutput{Raw: raw, Err: errors.New("empty output")}
	}

	out, err := decodeAnalyses(text)
	if err == nil {
		return out, nil
	}

	if candidate, ok := outermostJSON(text); ok && candidate != text {
		if out, cerr := decodeAnalyses(candidate); cerr == nil {
			return out, nil
		}
	}

	if repaired, ok := repairTruncatedArray(text); ok {
		var items []RawAnalysis
		if rerr := json.Unmarshal([]byte(repaired), &items); rerr == nil {
			if items = nonEmpty(items); len(items) > 0 {
				return items, nil
			}
		}
	}

	return nil, &ErrMalformedOutput{Raw: raw, Err: err}
}

func decodeAnalyses(text string) ([]RawAnalysis, error) {
	switch text[0] {
	case '[':
		var items []RawAnalysis
		if err := json.Unmarshal([]byte(text), &items); err != nil {
			return nil, err
		}
		if items = nonEmpty(items); len(items) == 0 {
			return nil, errNoAnalyses
		}
		return items, nil
	case '{':
		var envelope struct {
			Analyses *[]RawAnalysis `json:"analyses"`
		}
		if err := json.Unmarshal([]byte(text), &envelope); err != nil {
			return nil, err
		}
		if envelope.Analyses != nil {
			if items := nonEmpty(*envelope.Analyses); len(items) > 0 {
				return items, nil
			}
			return nil, errNoAnalyses
		}
		var single RawAnalysis
		if err := json.Unmarshal([]byte(text), &single); err != nil {
			return nil, err
		}
		if items := nonEmpty([]RawAnalysis{single}); len(items) > 0 {
			return items, nil
		}
		return nil, errNoAnalyses
	default:
		return nil, fmt.Errorf("unexpected leading character %q", text[0])
	}
}

// nonEmpty drops elements that carry neither a problem name nor concepts.
func nonEmpty(items []RawAnalysis) []RawAnalysis {
	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.Problem) == "" && len(it.Concepts) == 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}
	body := text[start+3:]
	// drop the info string, e.g. ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// outermostJSON trims prose around the first '{' or '[' and its last matching closer.
func outermostJSON(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// repairTruncatedArray cuts a JSON array after its last complete top-level
// element and closes it.
func repairTruncatedArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	lastComplete := -1
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 1 {
				lastComplete = i
			}
			if depth == 0 {
				// The array is complete; nothing to repair.
				return text[start : i+1], true
			}
		}
	}

	if lastComplete < 0 {
		return "", false
	}
	return text[start:lastComplete+1] + "]", true
}
