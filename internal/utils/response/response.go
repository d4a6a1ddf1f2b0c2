// Package response provides helpers for writing consistent JSON HTTP
// responses. Every handler sends JSON back to the client; the helpers
// here keep the header, status and encoding steps in one place and make
// every error body look the same.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned for error cases.
//
// Success responses may return any JSON shape (a student, a list...).
// Error responses always look like:
//
//	{ "status": "error", "error": "field name is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes data as JSON with the given status code.
//
// Order matters: Header() → WriteHeader() → body. Headers are locked
// once WriteHeader (or the first Write) has run.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode appends a newline after the JSON, handy with curl.
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes err inside the standard error envelope.
func WriteError(w http.ResponseWriter, status int, err error) error {
	return WriteJSON(w, status, GeneralError(err))
}

// NoContent writes a bodyless 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// OK is the body used by endpoints with nothing else to report.
func OK() Response {
	return Response{Status: StatusOK}
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError turns validator.FieldError values into one readable
// Response, one sentence per failing field joined with ", ":
//
//	{ "status": "error", "error": "field name is required, field password is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
