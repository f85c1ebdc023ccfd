package worker

import (
	"context"
	"errors"

	"github.com/leetloop/leetloop/internal/logger"
)

// ProfileSyncer fetches a profile from LeetCode and stores what is new. With
// refresh set, cached LeetCode data is dropped before fetching.
// Implemented by the services package; declared here to avoid an import cycle.
type ProfileSyncer interface {
	SyncProfile(ctx context.Context, profileID int64, refresh bool) (newSubmissions int, err error)
}

// PendingAnalyzer analyses a profile's pending submissions.
type PendingAnalyzer interface {
	AnalyzeProfile(ctx context.Context, profileID int64) error
}

type AnalyzeProfileJob struct {
	Analyzer  PendingAnalyzer
	ProfileID int64
}

func (j *AnalyzeProfileJob) Name() string { return "analyze_profile" }

func (j *AnalyzeProfileJob) Run(ctx context.Context) error {
	return j.Analyzer.AnalyzeProfile(ctx, j.ProfileID)
}

// SyncProfileJob syncs one profile and queues analysis when new submissions arrived.
type SyncProfileJob struct {
	Syncer       ProfileSyncer
	Analyzer     PendingAnalyzer
	AnalysisPool *Pool
	ProfileID    int64
	Refresh      bool
}

func (j *SyncProfileJob) Name() string { return "sync_profile" }

func (j *SyncProfileJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("profile_id", j.ProfileID)

	added, err := j.Syncer.SyncProfile(ctx, j.ProfileID, j.Refresh)
	if err != nil {
		return err
	}
	if added == 0 || j.AnalysisPool == nil {
		log.Debug("no new submissions to analyze")
		return nil
	}

	err = j.AnalysisPool.Submit(&AnalyzeProfileJob{Analyzer: j.Analyzer, ProfileID: j.ProfileID})
	if errors.Is(err, ErrQueueFull) {
		// Pending submissions are picked up by the next analysis run.
		log.Warn("analysis queue full, %d submissions left pending", added)
		return nil
	}
	return err
}
