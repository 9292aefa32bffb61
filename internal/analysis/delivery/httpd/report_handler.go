package httpd

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) AnalyzeWork(w http.ResponseWriter, r *http.Request) {
	workID := strings.TrimSpace(chi.URLParam(r, "workId"))
	if workID == "" {
		writeError(w, http.StatusInternalServerError, "work id is required")
		return
	}

	report, err := h.analysisService.Analyze(r.Context(), workID)
	if err != nil {
		h.logger.Error().Err(err).Str("work_id", workID).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	workID := strings.TrimSpace(chi.URLParam(r, "workId"))
	if workID == "" {
		writeError(w, http.StatusNotFound, "reports not found")
		return
	}

	reports, err := h.analysisService.ListReports(r.Context(), workID)
	if err != nil {
		h.logger.Error().Err(err).Str("work_id", workID).Msg("Failed to list reports")
		writeError(w, http.StatusNotFound, "reports not found")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}
