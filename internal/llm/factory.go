package llm

import (
	"fmt"
)

// Config selects and tunes the production provider chain.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestsPerMinute int
	Retry             RetryConfig
}

// NewProvider builds caller → retry → rate limit → logging → Groq.
// It returns ErrNotConfigured when no API key is set.
func NewProvider(cfg Config) (Provider, error) {
	base, err := NewGroqProvider(GroqConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing groq provider: %w", err)
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}

	logged := WithLogging(base)
	limited := WithRateLimit(logged, PerMinute(cfg.RequestsPerMinute))
	return WithRetry(limited, retry), nil
}
