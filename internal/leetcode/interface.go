package leetcode

import "context"

// ClientInterface defines the LeetCode operations the services depend on.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchUserData(ctx context.Context, username string) (*UserData, error)
	// QuestionDifficulties maps each title slug to Easy, Medium or Hard.
	// Slugs that could not be resolved are left out.
	QuestionDifficulties(ctx context.Context, slugs []string) (map[string]string, error)
}

// CachingClient is a ClientInterface whose cached entries can be dropped.
type CachingClient interface {
	ClientInterface
	Invalidate(username string)
}

var (
	_ ClientInterface = (*Client)(nil)
	_ CachingClient   = (*CachedClient)(nil)
)
