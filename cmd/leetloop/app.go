package main

import (
	"github.com/leetloop/leetloop/internal/analysis"
	"github.com/leetloop/leetloop/internal/config"
	"github.com/leetloop/leetloop/internal/db"
	"github.com/leetloop/leetloop/internal/leetcode"
	"github.com/leetloop/leetloop/internal/llm"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/repository/sqlite"
	"github.com/leetloop/leetloop/internal/services"
)

// app holds the services shared by serve and sync.
type app struct {
	db       *db.DB
	profiles services.ProfileService
	sync     services.SyncService
	analysis services.AnalysisService
	reviews  services.ReviewService
	stats    services.StatsService
}

func newApp(cfg config.Config) (*app, error) {
	log := logger.Default()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	client := leetcode.NewCachedClient(
		leetcode.New(
			leetcode.WithEndpoint(cfg.LeetCodeGraphQLURL),
			leetcode.WithRecentLimit(cfg.RecentSubmissionLimit),
			leetcode.WithMaxConcurrency(cfg.MaxConcurrentQueries),
		),
		cfg.LeetCodeCacheTTL,
		cfg.LeetCodeCacheSize,
	)

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	profileRepo := sqlite.NewProfileRepository(database.DB)
	submissionRepo := sqlite.NewSubmissionRepository(database.DB)
	analysisRepo := sqlite.NewAnalysisRepository(database.DB)
	reviewRepo := sqlite.NewConceptReviewRepository(database.DB)
	snapshotRepo := sqlite.NewSnapshotRepository(database.DB)

	log.Debug("services initialized")
	return &app{
		db:       database,
		profiles: services.NewProfileService(profileRepo),
		sync:     services.NewSyncService(client, profileRepo, submissionRepo, snapshotRepo),
		analysis: services.NewAnalysisService(submissionRepo, analysisRepo, reviewRepo, analyzer, cfg.AnalysisBatchSize),
		reviews:  services.NewReviewService(reviewRepo),
		stats:    services.NewStatsService(snapshotRepo, reviewRepo, analysisRepo, submissionRepo),
	}, nil
}

// newAnalyzer uses the Groq-backed analyzer when a key is configured and the
// offline title heuristic otherwise.
func newAnalyzer(cfg config.Config) (analysis.Analyzer, error) {
	log := logger.Default()
	if !cfg.LLMEnabled() {
		log.Warn("GROQ_API_KEY not set, using offline heuristic analyzer")
		return analysis.NewHeuristicAnalyzer(), nil
	}

	retry := llm.DefaultRetryConfig()
	retry.MaxAttempts = cfg.LLMMaxAttempts
	provider, err := llm.NewProvider(llm.Config{
		APIKey:            cfg.GroqAPIKey,
		BaseURL:           cfg.GroqBaseURL,
		Model:             cfg.GroqModel,
		RequestsPerMinute: cfg.LLMRequestsPerMinute,
		Retry:             retry,
	})
	if err != nil {
		return nil, err
	}
	log.Info("using LLM analyzer: model=%s", provider.ModelID())
	return analysis.NewLLMAnalyzer(provider, analysis.WithBatchSize(cfg.AnalysisBatchSize)), nil
}

func (a *app) Close() error {
	return a.db.Close()
}
