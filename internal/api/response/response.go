// Package response provides utilities for sending consistent HTTP responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
)

// ErrorResponse is the structured error body returned by the API.
// Details is optional and carries additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code. If data is nil,
// only the status code is sent. Encoding errors are logged, not surfaced.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode JSON response")
		}
	}
}

// Error sends a structured error response.
func Error(w http.ResponseWriter, status int, message, details string) {
	JSON(w, status, ErrorResponse{Error: message, Details: details})
}

// FromError maps a service error to the right status code: not-found
// sentinels to 404, validation sentinels to 400, everything else to 500.
func FromError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrPositionNotFound),
		errors.Is(err, apperrors.ErrPriceNotFound),
		errors.Is(err, apperrors.ErrSnapshotNotFound):
		Error(w, http.StatusNotFound, message, err.Error())
	case errors.Is(err, apperrors.ErrEmptyCode),
		errors.Is(err, apperrors.ErrInvalidCostPrice),
		errors.Is(err, apperrors.ErrInvalidShares),
		errors.Is(err, apperrors.ErrInvalidTypeFilter):
		Error(w, http.StatusBadRequest, message, err.Error())
	default:
		Error(w, http.StatusInternalServerError, message, err.Error())
	}
}
