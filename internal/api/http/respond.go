package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/classhour/examd/internal/exam"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the service error taxonomy onto HTTP statuses. The message is
// surfaced as-is: every error here reflects a caller mistake or a timing
// condition, not an internal fault.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exam.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, exam.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, exam.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, exam.ErrWindowClosed):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
