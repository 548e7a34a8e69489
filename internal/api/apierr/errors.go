package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/encounterlog/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidEncounter  = "INVALID_ENCOUNTER"
	CodeEncounterNotFound = "ENCOUNTER_NOT_FOUND"
	CodeEntityNotFound    = "ENTITY_NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status code err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrEncounterNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEncounterNotFound, "Encounter not found"}}
	case errors.Is(err, model.ErrEntityNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEntityNotFound, "Entity not found in encounter"}}
	case errors.Is(err, model.ErrInvalidEncounter):
		// validation messages are safe to show
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidEncounter, err.Error()}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
