package genai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrCredentials reports a rejected or unknown API key. Callers should ask for a new key.
	ErrCredentials   = errors.New("invalid or missing api credentials")
	ErrTimeout       = errors.New("generation timed out")
	ErrVideoTooLarge = errors.New("video exceeds size limit")
)

const entityNotFound = "Requested entity was not found"

// GenerationError describes a generation request that completed without a usable result.
type GenerationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsCredentials reports whether err was caused by the API rejecting the key.
func IsCredentials(err error) bool {
	return errors.Is(err, ErrCredentials)
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// statusError maps a non-2xx API response to an error.
func statusError(op string, statusCode int, message string) error {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden ||
		strings.Contains(message, entityNotFound) {
		return &GenerationError{Op: op, Reason: message, Err: ErrCredentials}
	}

	return &GenerationError{Op: op, Reason: fmt.Sprintf("status %d: %s", statusCode, message)}
}
