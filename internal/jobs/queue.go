package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueSync(profileID int64, refresh bool) error
	EnqueueAnalysis(profileID int64) error
}
