package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/internal/domain"
)

// Error codes carried in api.ErrorDetail.Code.
const (
	codeNotFound   = "not_found"
	codeValidation = "validation_error"
	codeTooLarge   = "payload_too_large"
	codeInternal   = "internal_error"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client has gone away if this fails
	json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: api.ErrorDetail{Code: code, Message: message}})
}

// notFound writes a 404. The caller supplies the human-readable message
// (e.g. "trip not found") because the handler is the layer that knows what
// was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusNotFound, codeNotFound, message)
}

// badRequest writes a 400 for a request rejected before reaching the
// service layer (e.g. malformed body or path parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusBadRequest, codeValidation, message)
}

// writeServiceError maps a service error to a response: domain.ErrNotFound
// to 404 with notFoundMsg, domain.ErrValidation to 422, anything else to a
// logged 500 whose body reveals nothing.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, notFoundMsg)
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeErrorBody(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// decodeJSON reads the request body into dst. On failure it writes the
// response itself (413 for an oversized body, 400 otherwise) and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		badRequest(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorBody(w, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
			return false
		}
		badRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: exit_date must be after entry_date"
// → "exit_date must be after entry_date"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return msg
}
