// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client. Rather
// than repeating the same three lines (set header, set status, encode JSON)
// in every handler, they live here, together with the three error shapes
// the API uses:
//
//	400 — { "errorMessage": "..." }  the request itself is wrong
//	404 — { "message": "..." }       the id matched nothing
//	500 — { "error": "..." }         the store failed; message is generic
package response

import (
	"encoding/json"
	"net/http"
)

// ValidationResponse is the body of a 400 response.
type ValidationResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

// NotFoundResponse is the body of a 404 response.
type NotFoundResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of a 500 response. It never carries the
// internal error text.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusBadRequest, ValidationResponse{ErrorMessage: message})
}

// NotFound writes a 404 with the given message.
func NotFound(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusNotFound, NotFoundResponse{Message: message})
}

// InternalError writes a 500 with the given public message.
func InternalError(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: message})
}
