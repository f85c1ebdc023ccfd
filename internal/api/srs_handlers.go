package api

import (
	"net/http"
	"time"

	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/srs"
)

type nextReviewRequest struct {
	Interval   *int     `json:"interval"`
	EaseFactor *float64 `json:"ease_factor"`
	Rating     *int     `json:"rating"`
}

type nextReviewResponse struct {
	srs.NextReview
	DueAt time.Time `json:"due_at"`
}

type difficultyRequest struct {
	CurrentDifficulty *int  `json:"current_difficulty"`
	WasCorrect        *bool `json:"was_correct"`
}

// handleNextReview exposes the interval calculator. Missing fields are
// validation errors rather than zero values.
func (s *Server) handleNextReview(w http.ResponseWriter, r *http.Request) {
	var req nextReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	switch {
	case req.Interval == nil:
		handleError(w, r, errors.NewValidationError("interval", "is required"))
		return
	case req.EaseFactor == nil:
		handleError(w, r, errors.NewValidationError("ease_factor", "is required"))
		return
	case req.Rating == nil:
		handleError(w, r, errors.NewValidationError("rating", "is required"))
		return
	}

	next, err := s.ReviewService.PreviewNextReview(*req.Interval, *req.EaseFactor, *req.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nextReviewResponse{NextReview: next, DueAt: srs.DueAt(s.now(), next.NewInterval)})
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.CurrentDifficulty == nil {
		handleError(w, r, errors.NewValidationError("current_difficulty", "is required"))
		return
	}
	if req.WasCorrect == nil {
		handleError(w, r, errors.NewValidationError("was_correct", "is required"))
		return
	}

	d, err := s.ReviewService.AdjustDifficulty(*req.CurrentDifficulty, *req.WasCorrect)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"new_difficulty": d})
}
