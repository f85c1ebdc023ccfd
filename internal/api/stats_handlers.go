package api

import (
	"net/http"
	"strings"

	"github.com/leetloop/leetloop/internal/models"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	dash, err := s.StatsService.Dashboard(r.Context(), *profile, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	limit, offset, err := pagination(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	items, total, err := s.AnalysisService.ListSubmissions(r.Context(), models.SubmissionFilter{
		ProfileID: profile.ID,
		Status:    strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, limit, offset))
}

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	limit, offset, err := pagination(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	items, total, err := s.AnalysisService.ListAnalyses(r.Context(), models.AnalysisFilter{
		ProfileID: profile.ID,
		Category:  strings.TrimSpace(q.Get("category")),
		Concept:   strings.TrimSpace(q.Get("concept")),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, limit, offset))
}
