package httpd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studcheck/plagiarism-checker/internal/storage/service"
)

// UploadWork принимает multipart-форму: file, submitterName, assignmentName.
func (h *Handler) UploadWork(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read file field: %v", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read file: %v", err))
		return
	}

	submitterName := r.FormValue("submitterName")
	assignmentName := r.FormValue("assignmentName")

	work, err := h.storageService.Store(r.Context(), fileHeader.Filename, content, submitterName, assignmentName)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFile) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.logger.Error().Err(err).Str("submitter", submitterName).Msg("Failed to store work")
		writeError(w, http.StatusInternalServerError, "failed to store work")
		return
	}

	writeJSON(w, http.StatusOK, work)
}

func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	workID := strings.TrimSpace(chi.URLParam(r, "id"))
	if workID == "" {
		writeError(w, http.StatusNotFound, "work not found")
		return
	}

	content, work, err := h.storageService.Fetch(r.Context(), workID)
	if err != nil {
		if !errors.Is(err, service.ErrWorkNotFound) {
			h.logger.Error().Err(err).Str("work_id", workID).Msg("Failed to fetch work file")
		}
		writeError(w, http.StatusNotFound, "work not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", work.StoragePath))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
