package handler

import (
	"context"
	"net/http"

	"github.com/studcheck/plagiarism-checker/internal/gateway/integration"
)

// UploadWork forwards the multipart upload to the storage service, relays
// its response to the client verbatim, and on success schedules analysis
// in the background. The upload never waits for analysis to finish.
func (h *Handler) UploadWork(w http.ResponseWriter, r *http.Request) {
	result, err := h.storageClient.Upload(r.Context(), r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage service is unavailable")
		return
	}

	if result.Status >= 200 && result.Status < 300 {
		workID, err := integration.ExtractWorkID(result.Body)
		if err != nil {
			// без id запускать анализ не на чем, загрузку это не ломает
			h.logger.Warn().Err(err).Msg("Skipping analysis dispatch")
		} else {
			h.dispatchAnalysis(workID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.Status)
	w.Write(result.Body)
}

func (h *Handler) dispatchAnalysis(workID string) {
	h.dispatcher.Submit(workID, func(ctx context.Context) error {
		return h.analysisClient.TriggerAnalysis(ctx, workID)
	})
}
