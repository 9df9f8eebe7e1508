package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"till-ledger/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to tell the client.
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// errorStatus maps a service error to an HTTP status, error code and client message.
func errorStatus(err error, fallback string) (int, string, string) {
	var de *model.DomainError
	if errors.As(err, &de) {
		if de.Code == model.ErrCodeSequenceConflict {
			return http.StatusConflict, de.Code, de.Message
		}
		return http.StatusBadRequest, de.Code, de.Message
	}

	var we *model.WriteError
	if errors.As(err, &we) {
		return http.StatusInternalServerError, model.ErrCodeInternalError, we.Error()
	}

	return http.StatusInternalServerError, model.ErrCodeInternalError, fallback
}

// writeServiceError writes err using errorStatus.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	status, code, message := errorStatus(err, fallback)
	writeError(w, status, code, message, logger)
}
