package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/career-compass/internal/apperror"
)

// ErrorResponse is the JSON error body.
//
//	{"error": "not_found", "message": "storage key not found with key user"}
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind
	Message string `json:"message"` // human-readable description
}

// writeJSON sets headers, then status, then writes the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps an apperror kind to an HTTP status. Anything untyped is a
// generic 500 so internal details never reach the browser.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status, errorType = http.StatusBadRequest, "validation_error"
		case errors.Is(err, apperror.ErrProtocol):
			status, errorType = http.StatusBadRequest, "protocol_error"
		case errors.Is(err, apperror.ErrNotFound):
			status, errorType = http.StatusNotFound, "not_found"
		case errors.Is(err, apperror.ErrRejected):
			status, errorType = http.StatusUnauthorized, "rejected"
		case errors.Is(err, apperror.ErrBackend):
			status, errorType = http.StatusBadGateway, "backend_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
