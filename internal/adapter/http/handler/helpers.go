package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/peerledger/internal/adapter/http/dto"
	"github.com/iho/peerledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message})
}

// writeDomainError maps a domain error to a status and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapDomainError(err), err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrCourseUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSenderOverdraft),
		errors.Is(err, domain.ErrReceiverOverdraft),
		errors.Is(err, domain.ErrAlreadyResolved):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrPasswordRequired),
		errors.Is(err, domain.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrInvalidEnrollment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseID parses the named integer URL parameter.
func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
