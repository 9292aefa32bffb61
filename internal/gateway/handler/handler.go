package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/gateway/integration"
	"github.com/studcheck/plagiarism-checker/internal/gateway/proxy"
	"github.com/studcheck/plagiarism-checker/internal/gateway/worker"
)

type Handler struct {
	storageClient  integration.StorageClient
	analysisClient integration.AnalysisClient
	dispatcher     *worker.Dispatcher
	fileProxy      *proxy.Forwarder
	analysisProxy  *proxy.Forwarder
	logger         zerolog.Logger
}

func NewHandler(
	storageClient integration.StorageClient,
	analysisClient integration.AnalysisClient,
	dispatcher *worker.Dispatcher,
	fileProxy *proxy.Forwarder,
	analysisProxy *proxy.Forwarder,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		storageClient:  storageClient,
		analysisClient: analysisClient,
		dispatcher:     dispatcher,
		fileProxy:      fileProxy,
		analysisProxy:  analysisProxy,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/ready", h.ReadyCheck)
	router.Get("/live", h.LiveCheck)

	router.Route("/api", func(r chi.Router) {
		r.Route("/files", func(r chi.Router) {
			r.Post("/", h.UploadWork)
			r.Get("/{id}", h.fileProxy.ServeHTTP)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/analyze/{workId}", h.analysisProxy.ServeHTTP)
			r.Get("/{workId}", h.GetReports)
			r.Get("/{workId}/wordcloud", h.analysisProxy.ServeHTTP)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "api-gateway",
	})
}

func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) LiveCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
