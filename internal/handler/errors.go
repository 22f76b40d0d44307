package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/serra-caronas/internal/domain"
)

// ErrorDetail is the inner object of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope returned for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// kindStatus maps each domain.ErrorKind to its HTTP status.
var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:        http.StatusUnprocessableEntity,
	domain.KindUnauthenticated:   http.StatusUnauthorized,
	domain.KindForbidden:         http.StatusForbidden,
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindInvalidState:      http.StatusConflict,
	domain.KindInvalidTransition: http.StatusConflict,
	domain.KindDuplicate:         http.StatusConflict,
	domain.KindInternal:          http.StatusInternalServerError,
}

// defaultMessages is used when a wrapped error carries no detail of its own.
var defaultMessages = map[domain.ErrorKind]string{
	domain.KindValidation:        "invalid request",
	domain.KindUnauthenticated:   "authentication required",
	domain.KindForbidden:         "you do not own this resource",
	domain.KindNotFound:          "resource not found",
	domain.KindInvalidState:      "resource cannot be changed in its current state",
	domain.KindInvalidTransition: "status change not allowed",
	domain.KindDuplicate:         "already recorded",
	domain.KindInternal:          "internal server error",
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeServiceError classifies err and writes the matching envelope.
// Internal errors are logged and their text is never sent to the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		s.Logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, string(kind), defaultMessages[kind])
		return
	}
	writeError(w, kindStatus[kind], string(kind), unwrapMessage(err, kind))
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.DriverService.Create: validation error: origin and destination must differ"
// becomes "origin and destination must differ".
func unwrapMessage(err error, kind domain.ErrorKind) string {
	sentinel := sentinelFor(kind)
	if sentinel == nil {
		return defaultMessages[kind]
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return defaultMessages[kind]
}

func sentinelFor(kind domain.ErrorKind) error {
	switch kind {
	case domain.KindValidation:
		return domain.ErrValidation
	case domain.KindUnauthenticated:
		return domain.ErrUnauthenticated
	case domain.KindForbidden:
		return domain.ErrForbidden
	case domain.KindNotFound:
		return domain.ErrNotFound
	case domain.KindInvalidState:
		return domain.ErrInvalidState
	case domain.KindInvalidTransition:
		return domain.ErrInvalidTransition
	case domain.KindDuplicate:
		return domain.ErrDuplicate
	}
	return nil
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected so that immutable fields such as origin or
// owner cannot be smuggled into a PATCH. It writes the error response itself
// and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		writeError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), "request body is required")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large")
			return false
		}
		writeError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), "malformed request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
