package leetcode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProblemURL returns the public problem page for a title slug.
func ProblemURL(slug string) string {
	return "https://leetcode.com/problems/" + strings.Trim(slug, "/") + "/"
}

// ParseSubmissionCalendar decodes the calendar JSON string LeetCode returns
// (unix seconds -> submission count) into counts per UTC day.
func ParseSubmissionCalendar(raw string) (map[time.Time]int, error) {
	out := make(map[time.Time]int)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}

	var entries map[string]int
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("leetcode: parse submission calendar: %w", err)
	}
	for k, count := range entries {
		secs, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("leetcode: parse submission calendar key %q: %w", k, err)
		}
		day := time.Unix(secs, 0).UTC().Truncate(24 * time.Hour)
		out[day] += count
	}
	return out, nil
}

// ActiveDaysSince counts calendar days on or after since with at least one submission.
func ActiveDaysSince(calendar map[time.Time]int, since time.Time) int {
	since = since.UTC().Truncate(24 * time.Hour)
	n := 0
	for day, count := range calendar {
		if count > 0 && !day.Before(since) {
			n++
		}
	}
	return n
}
