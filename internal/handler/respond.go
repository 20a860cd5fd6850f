package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/oxidocs/internal/apperr"
)

// maxBody caps request bodies; templates are the largest payloads.
const maxBody = 1 << 20

type errorBody struct {
	Message string         `json:"message"`
	Issues  []apperr.Issue `json:"issues,omitempty"`
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// fail maps a service error onto its HTTP status. Unexpected errors are
// logged and answered with a generic message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if v, ok := apperr.IsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: v.Error(), Issues: v.Issues})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, http.StatusConflict, strings.TrimSuffix(err.Error(), ": "+apperr.ErrConflict.Error()))
	default:
		log.Printf("Error: %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parseID reads a numeric path parameter. kind names the record in the
// error message, e.g. "Invalid client ID".
func parseID(w http.ResponseWriter, r *http.Request, param, kind string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid "+kind+" ID")
		return 0, false
	}
	return id, true
}

// decode reads the body into v and answers 400 on malformed JSON.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := readJSON(r, v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
