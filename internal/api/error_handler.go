package api

import (
	"fmt"
	"net/http"

	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	switch {
	case appErr.Status >= 500:
		log.Error("server error: %v", appErr)
	case appErr.Status >= 400:
		log.Warn("client error: %v", appErr)
	default:
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, appErr.Status, errorBody(appErr))
}

func errorBody(appErr *errors.AppError) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
}

func errNotFoundRoute(r *http.Request) *errors.AppError {
	return errors.NewNotFoundError("route", fmt.Sprintf("%s %s", r.Method, r.URL.Path))
}
