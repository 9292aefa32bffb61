package httpd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/storage/service"
)

type Handler struct {
	storageService service.StorageService
	maxUploadSize  int64
	logger         zerolog.Logger
}

func NewHandler(storageService service.StorageService, maxUploadSize int64, logger zerolog.Logger) *Handler {
	return &Handler{
		storageService: storageService,
		maxUploadSize:  maxUploadSize,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/files", func(r chi.Router) {
		r.Post("/", h.UploadWork)
		r.Get("/{id}", h.GetFile)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storage-service",
		"timestamp": time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}
