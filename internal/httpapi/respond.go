package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"socialMediaAPI/internal/apperr"
)

const maxBodyBytes = 1 << 20

// errorBody is the envelope for every non-2xx response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthenticated", Message: apperr.ErrUnauthenticated.Error()})
}

// writeError maps err onto the error envelope. Anything outside the apperr
// taxonomy is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		writeUnauthenticated(w)
	case errors.Is(err, apperr.ErrIdentityNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "identity_not_found", Message: apperr.ErrIdentityNotFound.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden", Message: apperr.ErrForbidden.Error()})
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "conflict", Message: err.Error(), Reason: apperr.ReasonOf(err)})
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid_input", Message: err.Error()})
	default:
		log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal server error"})
	}
}

// decodeJSON reads a single JSON object from the request body into v.
// Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("body", "malformed JSON: %v", err)
	}
	return nil
}
