package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jhendriks/photoregister/internal/logger"
	"github.com/jhendriks/photoregister/internal/model"
)

// PhotoService runs a photo request through the retrieval pipeline.
type PhotoService interface {
	ProcessRequest(ctx context.Context, req model.PhotoRequest) (model.PhotoResponse, error)
}

// Photo handles photo retrieval endpoints.
type Photo struct {
	service PhotoService
	logger  *logger.Logger
}

// NewPhoto creates a new Photo handler.
func NewPhoto(service PhotoService, logger *logger.Logger) *Photo {
	return &Photo{
		service: service,
		logger:  logger,
	}
}

// HandlePhotoRequest handles POST /v1/photo.
func (h *Photo) HandlePhotoRequest(w http.ResponseWriter, r *http.Request) {
	var req model.PhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewValidationError("body", "malformed JSON"))
		return
	}

	resp, err := h.service.ProcessRequest(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /health.
func (h *Photo) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
