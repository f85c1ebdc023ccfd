package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/leetloop/leetloop/internal/errors"
	"github.com/leetloop/leetloop/internal/logger"
)

const (
	maxBodyBytes    = 1 << 20
	defaultPageSize = 50
	maxPageSize     = 200
)

type listResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func newListResponse[T any](items []T, total, limit, offset int) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: total, Limit: limit, Offset: offset}
}

// writeJSON encodes v before sending the status so an encoding failure still
// yields a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Default().Error("failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody(errors.NewInternalError(err)))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// decodeJSON reads a single JSON object from the request body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("request body is empty")
		}
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	if dec.More() {
		return errors.NewBadRequestError("request body must contain a single JSON object")
	}
	return nil
}

func urlParamID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError(key + " must be an integer")
	}
	return v, nil
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.NewBadRequestError(key + " must be true or false")
	}
	return v, nil
}

// pagination reads limit and offset, defaulting limit to defaultPageSize and
// capping it at maxPageSize.
func pagination(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit", defaultPageSize); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	if limit < 1 || offset < 0 {
		return 0, 0, errors.NewBadRequestError("limit must be positive and offset cannot be negative")
	}
	return min(limit, maxPageSize), offset, nil
}
