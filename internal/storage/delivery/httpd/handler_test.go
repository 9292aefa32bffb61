package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/studcheck/plagiarism-checker/internal/storage/models"
	"github.com/studcheck/plagiarism-checker/internal/storage/repository"
	"github.com/studcheck/plagiarism-checker/internal/storage/service"
)

type memoryWorkRepo struct {
	works map[string]models.Work
}

func (m *memoryWorkRepo) Create(_ context.Context, work *models.Work) error {
	m.works[work.ID] = *work
	return nil
}

func (m *memoryWorkRepo) GetByID(_ context.Context, id string) (*models.Work, error) {
	work, ok := m.works[id]
	if !ok {
		return nil, nil
	}
	return &work, nil
}

func (m *memoryWorkRepo) Ping(context.Context) error { return nil }

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	blobs, err := repository.NewLocalBlobStorage(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	svc := service.NewStorageService(&memoryWorkRepo{works: make(map[string]models.Work)}, blobs, zerolog.Nop())

	router := chi.NewRouter()
	NewHandler(svc, 50*1024*1024, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func uploadRequest(t *testing.T, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "essay.txt")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("submitterName", "Alice"))
	require.NoError(t, mw.WriteField("assignmentName", "HW-1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndDownload(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "essay about gophers"))
	require.Equal(t, http.StatusOK, rec.Code)

	var work models.Work
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &work))
	require.NotEmpty(t, work.ID)
	require.Equal(t, "Alice", work.SubmitterName)
	require.Equal(t, "HW-1", work.AssignmentName)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+work.ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "essay about gophers", rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestUploadErrors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		router := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, ""))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		router := newRouter(t)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("submitterName", "Alice"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/files", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetFileNotFound(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/does-not-exist", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Not Found", resp["error"])
}
