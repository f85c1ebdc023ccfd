package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	LeetCodeGraphQLURL    string
	LeetCodeCacheTTL      time.Duration
	LeetCodeCacheSize     int
	RecentSubmissionLimit int
	MaxConcurrentQueries  int

	GroqAPIKey           string
	GroqBaseURL          string
	GroqModel            string
	LLMRequestsPerMinute int
	LLMMaxAttempts       int
	AnalysisBatchSize    int

	SyncWorkerCount     int
	SyncQueueSize       int
	AnalysisWorkerCount int
	AnalysisQueueSize   int

	APIRequestsPerSecond float64
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// .env is optional outside development.
	_ = godotenv.Load()

	return Config{
		Addr:     envOr("ADDR", ":8080"),
		DBPath:   envOr("DB_PATH", "file:leetloop.db"),
		LogLevel: envOr("LOG_LEVEL", "INFO"),

		LeetCodeGraphQLURL:    envOr("LEETCODE_GRAPHQL_URL", "https://leetcode.com/graphql"),
		LeetCodeCacheTTL:      envDurationOr("LEETCODE_CACHE_TTL", 15*time.Minute),
		LeetCodeCacheSize:     envIntOr("LEETCODE_CACHE_SIZE", 256),
		RecentSubmissionLimit: envIntOr("RECENT_SUBMISSION_LIMIT", 100),
		MaxConcurrentQueries:  envIntOr("MAX_CONCURRENT_QUERIES", 4),

		GroqAPIKey:           os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:          envOr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:            envOr("GROQ_MODEL", "llama-3.3-70b-versatile"),
		LLMRequestsPerMinute: envIntOr("LLM_REQUESTS_PER_MINUTE", 30),
		LLMMaxAttempts:       envIntOr("LLM_MAX_ATTEMPTS", 3),
		AnalysisBatchSize:    envIntOr("ANALYSIS_BATCH_SIZE", 15),

		SyncWorkerCount:     envIntOr("SYNC_WORKER_COUNT", 2),
		SyncQueueSize:       envIntOr("SYNC_QUEUE_SIZE", 32),
		AnalysisWorkerCount: envIntOr("ANALYSIS_WORKER_COUNT", 1),
		AnalysisQueueSize:   envIntOr("ANALYSIS_QUEUE_SIZE", 32),

		APIRequestsPerSecond: envFloatOr("API_REQUESTS_PER_SECOND", 10),
	}
}

// LLMEnabled reports whether a Groq API key is configured.
func (c Config) LLMEnabled() bool {
	return strings.TrimSpace(c.GroqAPIKey) != ""
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}

	if err := validateURL("LEETCODE_GRAPHQL_URL", c.LeetCodeGraphQLURL); err != nil {
		errs = append(errs, err)
	}
	if c.LeetCodeCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("LEETCODE_CACHE_TTL cannot be negative (got %s)", c.LeetCodeCacheTTL))
	}
	if c.LeetCodeCacheSize < 1 {
		errs = append(errs, fmt.Errorf("LEETCODE_CACHE_SIZE must be at least 1 (got %d)", c.LeetCodeCacheSize))
	}
	if c.RecentSubmissionLimit < 1 || c.RecentSubmissionLimit > 100 {
		errs = append(errs, fmt.Errorf("RECENT_SUBMISSION_LIMIT must be between 1 and 100 (got %d)", c.RecentSubmissionLimit))
	}
	if c.MaxConcurrentQueries < 1 {
		errs = append(errs, fmt.Errorf("MAX_CONCURRENT_QUERIES must be at least 1 (got %d)", c.MaxConcurrentQueries))
	}

	if c.LLMEnabled() {
		if err := validateURL("GROQ_BASE_URL", c.GroqBaseURL); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(c.GroqModel) == "" {
			errs = append(errs, errors.New("GROQ_MODEL cannot be empty"))
		}
	}
	if c.LLMRequestsPerMinute < 1 {
		errs = append(errs, fmt.Errorf("LLM_REQUESTS_PER_MINUTE must be at least 1 (got %d)", c.LLMRequestsPerMinute))
	}
	if c.LLMMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1 (got %d)", c.LLMMaxAttempts))
	}
	if c.AnalysisBatchSize < 1 {
		errs = append(errs, fmt.Errorf("ANALYSIS_BATCH_SIZE must be at least 1 (got %d)", c.AnalysisBatchSize))
	}

	if c.SyncWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("SYNC_WORKER_COUNT must be at least 1 (got %d)", c.SyncWorkerCount))
	}
	if c.SyncQueueSize < 1 {
		errs = append(errs, fmt.Errorf("SYNC_QUEUE_SIZE must be at least 1 (got %d)", c.SyncQueueSize))
	}
	if c.AnalysisWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("ANALYSIS_WORKER_COUNT must be at least 1 (got %d)", c.AnalysisWorkerCount))
	}
	if c.AnalysisQueueSize < 1 {
		errs = append(errs, fmt.Errorf("ANALYSIS_QUEUE_SIZE must be at least 1 (got %d)", c.AnalysisQueueSize))
	}
	if c.APIRequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("API_REQUESTS_PER_SECOND must be positive (got %g)", c.APIRequestsPerSecond))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL (got %q)", key, raw)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
