// internal/common/errors/http.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as {"error": message} with the status mapped from its code.
func WriteError(w http.ResponseWriter, err error) *StandardError {
	stdErr := AsStandardError(err)
	WriteJSON(w, stdErr.HTTPStatus(), ErrorResponse{Error: stdErr.Message})
	return stdErr
}
