package server

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/abhisek/assessor/internal/assessment"
)

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{Error: &apiError{Code: code, Message: message}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("failed to encode error response")
	}
}

// respondDomainError maps session and registry errors to HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, assessment.ErrUnknownQuestion):
		respondError(w, http.StatusNotFound, "unknown_question", err.Error())
	case errors.Is(err, assessment.ErrInvalidRating):
		respondError(w, http.StatusBadRequest, "invalid_rating", err.Error())
	case errors.Is(err, assessment.ErrEmptyCategory):
		respondError(w, http.StatusConflict, "empty_category", err.Error())
	case errors.Is(err, assessment.ErrNoActiveCategory):
		respondError(w, http.StatusConflict, "no_active_category", err.Error())
	default:
		log.WithError(err).Error("unhandled session error")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
