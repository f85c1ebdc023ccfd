package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimitMiddleware(s.RequestsPerSecond))

		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleCreateProfile)

		r.Route("/profiles/{profileID}", func(r chi.Router) {
			r.Use(s.profileMiddleware)

			r.Get("/", s.handleGetProfile)
			r.Delete("/", s.handleDeleteProfile)
			r.Post("/sync", s.handleSync)
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/submissions", s.handleSubmissions)
			r.Get("/analyses", s.handleAnalyses)
			r.Get("/reviews", s.handleReviews)
			r.Post("/reviews/{reviewID}/rate", s.handleRateReview)
			r.Get("/reviews/{reviewID}/history", s.handleReviewHistory)
		})

		r.Post("/srs/next-review", s.handleNextReview)
		r.Post("/srs/difficulty", s.handleDifficulty)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNotFoundRoute(r))
	})
	return r
}
