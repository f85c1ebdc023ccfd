package models

import (
	"encoding/json"
	"time"
)

// ProfileSnapshot is the raw LeetCode user data fetched during the last sync.
type ProfileSnapshot struct {
	ProfileID int64           `json:"profile_id"`
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}
