package api

import (
	stderrors "errors"
	"net/http"

	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/logger"
	"github.com/leetloop/leetloop/internal/services"
	"github.com/leetloop/leetloop/internal/worker"
)

type syncResponse struct {
	*services.SyncResult
	AnalysisQueued bool `json:"analysis_queued"`
}

type queuedResponse struct {
	ProfileID int64  `json:"profile_id"`
	Status    string `json:"status"`
}

// handleSync syncs the profile from LeetCode. With async=true the sync runs on
// the worker pool and the handler answers 202; with refresh=true the cached
// LeetCode data is dropped first.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	log := logger.FromContext(r.Context())

	async, err := queryBool(r, "async")
	if err != nil {
		handleError(w, r, err)
		return
	}
	refresh, err := queryBool(r, "refresh")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if async {
		if err := s.JobQueue.EnqueueSync(profile.ID, refresh); err != nil {
			handleError(w, r, queueError("sync", err))
			return
		}
		log.Info("sync queued (refresh=%t)", refresh)
		writeJSON(w, http.StatusAccepted, queuedResponse{ProfileID: profile.ID, Status: "queued"})
		return
	}

	var res *services.SyncResult
	if refresh {
		res, err = s.SyncService.Refresh(r.Context(), *profile)
	} else {
		res, err = s.SyncService.Sync(r.Context(), *profile)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := syncResponse{SyncResult: res}
	if res.NewSubmissions > 0 {
		if err := s.JobQueue.EnqueueAnalysis(profile.ID); err != nil {
			log.Warn("failed to queue analysis: %v", err)
		} else {
			resp.AnalysisQueued = true
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	async, err := queryBool(r, "async")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if async {
		if err := s.JobQueue.EnqueueAnalysis(profile.ID); err != nil {
			handleError(w, r, queueError("analysis", err))
			return
		}
		writeJSON(w, http.StatusAccepted, queuedResponse{ProfileID: profile.ID, Status: "queued"})
		return
	}

	res, err := s.AnalysisService.AnalyzePending(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func queueError(kind string, err error) error {
	switch {
	case stderrors.Is(err, worker.ErrQueueFull):
		return errors.NewBusyError(kind + " queue is full, try again later")
	case stderrors.Is(err, worker.ErrPoolStopped):
		return errors.NewBusyError("server is shutting down")
	default:
		return errors.NewInternalError(err)
	}
}
