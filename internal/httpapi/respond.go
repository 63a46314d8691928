package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/shelfd/library/internal/validation"
)

// successEnvelope is the uniform success payload: data is always present,
// null when an operation has nothing to return (delete).
type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// errorEnvelope is the uniform failure payload.
type errorEnvelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Error   validation.ErrorDescriptor `json:"error"`
}

// toJSON writes a JSON response with status code.
func toJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func success(w http.ResponseWriter, status int, message string, data any) {
	toJSON(w, status, successEnvelope{Success: true, Message: message, Data: data})
}

// fail writes a generic error envelope carrying only a named error kind.
func fail(w http.ResponseWriter, status int, message, name string) {
	toJSON(w, status, errorEnvelope{Success: false, Message: message, Error: validation.Generic(name)})
}

// failValidation writes the 400 validation envelope with per-field detail.
func failValidation(w http.ResponseWriter, fields map[string]validation.FieldError) {
	toJSON(w, http.StatusBadRequest, errorEnvelope{
		Success: false,
		Message: "Validation failed",
		Error:   validation.Validation(fields),
	})
}

// failField is failValidation for the single-field rejections raised by
// handlers (unique conflicts, malformed ids, borrow business rules).
func failField(w http.ResponseWriter, fe validation.FieldError) {
	failValidation(w, map[string]validation.FieldError{fe.Path: fe})
}
