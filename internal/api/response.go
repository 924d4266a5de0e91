package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"resumerank/internal/decoder"
	"resumerank/internal/domain"
)

// HTTPError carries a status code to the client.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code and writes a JSON error body.
func handleError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		writeError(w, httpErr.Code, httpErr.Message)
	case errors.Is(err, domain.ErrNoReferenceDocument),
		errors.Is(err, domain.ErrEmptyCorpus),
		errors.Is(err, domain.ErrDuplicateID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, decoder.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request timed out")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
