package api

import (
	"net/http"
	"strings"

	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/models"
)

type rateReviewRequest struct {
	Rating *int `json:"rating"`
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	now := s.now()

	limit, offset, err := pagination(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	due, err := queryBool(r, "due")
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := models.ConceptReviewFilter{
		ProfileID:  profile.ID,
		Difficulty: strings.TrimSpace(q.Get("difficulty")),
		TagSlug:    strings.TrimSpace(q.Get("tag")),
		Limit:      limit,
		Offset:     offset,
	}
	if due {
		filter.DueBefore = &now
	}

	items, total, err := s.ReviewService.ListReviews(r.Context(), filter, now)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, limit, offset))
}

func (s *Server) handleRateReview(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	reviewID, err := urlParamID(r, "reviewID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req rateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Rating == nil {
		handleError(w, r, errors.NewValidationError("rating", "is required"))
		return
	}

	review, err := s.ReviewService.RateReview(r.Context(), profile.ID, reviewID, *req.Rating, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleReviewHistory(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	reviewID, err := urlParamID(r, "reviewID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	history, err := s.ReviewService.ReviewHistory(r.Context(), profile.ID, reviewID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if history == nil {
		history = []models.ReviewHistory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"review_id": reviewID, "history": history})
}
