package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// statusForError maps the error taxonomy to HTTP statuses.
func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns an error message safe to return to clients. Internal
// and external failure details stay in the logs.
func publicMessage(err error, fallback string) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound, apperrors.ErrorTypeValidation, apperrors.ErrorTypeConflict:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr.Message
		}
	}
	return fallback
}
