package jobs

import (
	"github.com/leetloop/leetloop/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	syncPool     *worker.Pool
	analysisPool *worker.Pool
	syncer       worker.ProfileSyncer
	analyzer     worker.PendingAnalyzer
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	syncPool *worker.Pool,
	analysisPool *worker.Pool,
	syncer worker.ProfileSyncer,
	analyzer worker.PendingAnalyzer,
) JobQueue {
	return &WorkerQueue{
		syncPool:     syncPool,
		analysisPool: analysisPool,
		syncer:       syncer,
		analyzer:     analyzer,
	}
}

func (q *WorkerQueue) EnqueueSync(profileID int64, refresh bool) error {
	return q.syncPool.Submit(&worker.SyncProfileJob{
		Syncer:       q.syncer,
		Analyzer:     q.analyzer,
		AnalysisPool: q.analysisPool,
		ProfileID:    profileID,
		Refresh:      refresh,
	})
}

func (q *WorkerQueue) EnqueueAnalysis(profileID int64) error {
	return q.analysisPool.Submit(&worker.AnalyzeProfileJob{
		Analyzer:  q.analyzer,
		ProfileID: profileID,
	})
}
