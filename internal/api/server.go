package api

import (
	"context"
	"time"

	"github.com/leetloop/leetloop/internal/jobs"
	"github.com/leetloop/leetloop/internal/services"
)

// Readier reports whether a dependency can serve traffic.
type Readier interface {
	Ready(ctx context.Context) error
}

type Server struct {
	ProfileService  services.ProfileService
	SyncService     services.SyncService
	AnalysisService services.AnalysisService
	ReviewService   services.ReviewService
	StatsService    services.StatsService
	JobQueue        jobs.JobQueue
	DB              Readier

	// RequestsPerSecond is the per-client API rate limit. Zero disables it.
	RequestsPerSecond float64
	// Now is the clock used for due dates; defaults to time.Now.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
