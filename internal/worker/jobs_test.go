package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/leetloop/leetloop/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	added     int
	err       error
	calls     []int64
	refreshes []bool
}

func (f *fakeSyncer) SyncProfile(_ context.Context, profileID int64, refresh bool) (int, error) {
	f.calls = append(f.calls, profileID)
	f.refreshes = append(f.refreshes, refresh)
	return f.added, f.err
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeProfile(context.Context, int64) error { return nil }

func TestSyncProfileJob_QueuesAnalysisForNewSubmissions(t *testing.T) {
	analysisPool := worker.NewPool("analysis", 1, 1)
	defer analysisPool.Stop()

	syncer := &fakeSyncer{added: 3}
	job := &worker.SyncProfileJob{Syncer: syncer, Analyzer: fakeAnalyzer{}, AnalysisPool: analysisPool, ProfileID: 7}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []int64{7}, syncer.calls)
	assert.Equal(t, 1, analysisPool.QueueSize())

	// A full analysis queue is not a sync failure.
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, analysisPool.QueueSize())
}

func TestSyncProfileJob_NothingNew(t *testing.T) {
	analysisPool := worker.NewPool("analysis", 1, 1)
	defer analysisPool.Stop()

	job := &worker.SyncProfileJob{Syncer: &fakeSyncer{}, Analyzer: fakeAnalyzer{}, AnalysisPool: analysisPool, ProfileID: 7}
	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, analysisPool.QueueSize())
}

func TestSyncProfileJob_PropagatesSyncError(t *testing.T) {
	boom := errors.New("leetcode down")
	job := &worker.SyncProfileJob{Syncer: &fakeSyncer{err: boom}, ProfileID: 7}
	assert.ErrorIs(t, job.Run(context.Background()), boom)
	assert.Equal(t, "sync_profile", job.Name())
}

func TestSyncProfileJob_PassesRefresh(t *testing.T) {
	syncer := &fakeSyncer{}
	require.NoError(t, (&worker.SyncProfileJob{Syncer: syncer, ProfileID: 7, Refresh: true}).Run(context.Background()))
	require.NoError(t, (&worker.SyncProfileJob{Syncer: syncer, ProfileID: 7}).Run(context.Background()))
	assert.Equal(t, []bool{true, false}, syncer.refreshes)
}
