package handler

import (
	"errors"
	"net/http"

	"github.com/jhendriks/photoregister/internal/model"
)

// ErrorResponse is the JSON error body. Internal detail never appears in it;
// only validation errors name the offending field.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "unprocessable_entity",
			Message: validationErr.Reason,
			Type:    "validation_error",
			Field:   validationErr.Field,
		})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "no photo registered for the given identifier and birth date",
			Type:    "not_found",
		})
		return
	}

	// KeyStructureError, EncryptionError, ProcessingError, UpstreamError and
	// anything unexpected all collapse to the same opaque response.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "request could not be processed",
		Type:    "internal_error",
	})
}
