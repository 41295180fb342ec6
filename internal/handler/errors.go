package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"friendbook/internal/domain"
)

// ErrorResponse is the JSON envelope every error reply uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code plus a human-readable
// message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// notFound writes a 404 for a missing resource. The caller supplies the
// human-readable message (e.g. "friend not found") because the handler is the
// layer that knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error: ErrorDetail{Code: "not_found", Message: message},
	})
}

// validationFailed writes a 422 for a domain validation failure. The message
// is extracted from the wrapped domain.ErrValidation error.
func validationFailed(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)},
	})
}

// badRequest writes a 400 for a request rejected before reaching the service
// layer (e.g. malformed body or an unparseable path parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{Code: "bad_request", Message: message},
	})
}

// conflict writes a 409 for a duplicate-content conflict. The error's own
// message already names the conflicting record content (enriched by the save
// engine), so it is used verbatim rather than unwrapped.
func conflict(w http.ResponseWriter, dup *domain.DuplicateError) {
	writeJSON(w, http.StatusConflict, ErrorResponse{
		Error: ErrorDetail{Code: "duplicate", Message: dup.Error()},
	})
}

// internalError writes a 500 with a generic body; the real cause goes to the
// request log, never to the client.
func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{Code: "internal_error", Message: "internal server error"},
	})
}

// notFoundMessage renders a 404 body from a save-engine error. A typed
// NotFoundError names the vanished record and is shown verbatim; anything
// else gets a generic line, because slicing a wrapped chain at ": " would
// truncate any cause whose own message contains a colon.
func notFoundMessage(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return "referenced record not found"
}

// unwrapMessage extracts the field-level message from a validation error
// chain. Every validation failure wraps domain.ErrValidation, so the text
// after the sentinel's message names the offending field. Splitting on the
// sentinel rather than on ": " keeps colons inside the field message intact
// (e.g. "pets[0]: pet name is required").
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
