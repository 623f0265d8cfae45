package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidField marks a Validate error about a field value that validator tags cannot express.
// Decode answers it with 422 like a failed tag.
var ErrInvalidField = errors.New("invalid field")

// ErrorResponse is the body of every JSON error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// Error writes a JSON error with an optional machine readable code.
func Error(w http.ResponseWriter, status int, code string, err error) {
	JSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

// Decode reads a JSON body into dst and validates it. It writes a 400 and returns false on failure.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body", "path", r.URL.Path, "error", err)

		return false
	}

	if err := dst.Validate(); err != nil {
		status := http.StatusBadRequest
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) || errors.Is(err, ErrInvalidField) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		slog.Error("Error validating request body", "path", r.URL.Path, "error", err)

		return false
	}

	return true
}
