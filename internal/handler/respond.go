package handler

import (
	"encoding/json"
	"net/http"

	"codeassist-be/pkg/errors"
	"codeassist-be/pkg/logger"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError writes a flat {"error": ...} body with the mapped status.
// Internal detail stays in the logs.
func writeError(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).WithField("error_type", string(appErr.Type)).Warn("Request failed")
	writeJSON(w, appErr.StatusCode, map[string]string{"error": appErr.Message}, logger)
}

// writeServiceError maps a service-layer error onto the HTTP response
func writeServiceError(w http.ResponseWriter, err error, logger *logger.Logger) {
	if appErr, ok := errors.AsAppError(err); ok {
		writeError(w, appErr, logger)
		return
	}
	writeError(w, errors.NewInternalError("Internal server error", err), logger)
}
