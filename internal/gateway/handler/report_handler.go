package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetReports relays the analysis service's report list, with one gateway
// rule on top: a work with no reports yet answers 404, not an empty list.
func (h *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "workId")

	status, body, err := h.analysisClient.ListReports(r.Context(), workID)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service is unavailable")
		return
	}

	if status != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
		return
	}

	var reports []json.RawMessage
	if err := json.Unmarshal(body, &reports); err != nil {
		h.logger.Error().Err(err).Str("work_id", workID).Msg("Malformed report list")
		writeError(w, http.StatusServiceUnavailable, "analysis service returned malformed response")
		return
	}

	if len(reports) == 0 {
		writeError(w, http.StatusNotFound, "no reports found for work")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
