package httpd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studcheck/plagiarism-checker/internal/analysis/service"
	"github.com/studcheck/plagiarism-checker/internal/analysis/service/integration"
)

func (h *Handler) GetWordCloud(w http.ResponseWriter, r *http.Request) {
	workID := strings.TrimSpace(chi.URLParam(r, "workId"))
	if workID == "" {
		writeError(w, http.StatusNotFound, "work not found")
		return
	}

	img, err := h.analysisService.WordCloudPNG(r.Context(), workID)
	if err != nil {
		switch {
		case errors.Is(err, integration.ErrWorkNotFound):
			writeError(w, http.StatusNotFound, "work not found")
		case errors.Is(err, service.ErrNotEnoughWords):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error().Err(err).Str("work_id", workID).Msg("Word cloud generation failed")
			writeError(w, http.StatusInternalServerError, "word cloud generation failed")
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "wordcloud_"+workID+".png"))
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
