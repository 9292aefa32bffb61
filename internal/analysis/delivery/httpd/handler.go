package httpd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/analysis/service"
)

type Handler struct {
	analysisService service.AnalysisService
	logger          zerolog.Logger
}

func NewHandler(analysisService service.AnalysisService, logger zerolog.Logger) *Handler {
	return &Handler{
		analysisService: analysisService,
		logger:          logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/reports", func(r chi.Router) {
		r.Post("/analyze/{workId}", h.AnalyzeWork)
		r.Get("/{workId}", h.ListReports)
		r.Get("/{workId}/wordcloud", h.GetWordCloud)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "analysis-service",
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
