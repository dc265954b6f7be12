package handler

import (
	"codepair/internal/service"
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an upstream or store failure: log it and
// return a generic 500 so provider details never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotJoinable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAlreadyCompleted):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailInUse):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[API] Internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
