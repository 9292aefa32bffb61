package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestStorageClientGetFileContent(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the file bytes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/files/work-1", r.URL.Path)
			w.Write([]byte("essay content"))
		}))
		defer srv.Close()

		client := NewStorageClient(srv.URL, time.Second, 3, time.Millisecond, zerolog.Nop())

		content, err := client.GetFileContent(ctx, "work-1")
		require.NoError(t, err)
		require.Equal(t, []byte("essay content"), content)
	})

	t.Run("404 is terminal", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewStorageClient(srv.URL, time.Second, 3, time.Millisecond, zerolog.Nop())

		_, err := client.GetFileContent(ctx, "missing")
		require.ErrorIs(t, err, ErrWorkNotFound)
		require.EqualValues(t, 1, calls.Load())
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("finally"))
		}))
		defer srv.Close()

		client := NewStorageClient(srv.URL, time.Second, 3, time.Millisecond, zerolog.Nop())

		content, err := client.GetFileContent(ctx, "work-1")
		require.NoError(t, err)
		require.Equal(t, []byte("finally"), content)
		require.EqualValues(t, 3, calls.Load())
	})

	t.Run("cancelled context stops the retry backoff", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			cancel()
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		// the delay is far longer than the test budget, so only a
		// context-aware wait lets this return
		client := NewStorageClient(srv.URL, time.Second, 3, time.Hour, zerolog.Nop())

		start := time.Now()
		_, err := client.GetFileContent(cancelCtx, "work-1")
		require.ErrorIs(t, err, context.Canceled)
		require.Less(t, time.Since(start), 5*time.Second)
		require.EqualValues(t, 1, calls.Load())
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewStorageClient(srv.URL, time.Second, 2, time.Millisecond, zerolog.Nop())

		_, err := client.GetFileContent(ctx, "work-1")
		require.Error(t, err)
		require.EqualValues(t, 3, calls.Load())
	})
}

func TestQuickChartRenderer(t *testing.T) {
	ctx := context.Background()
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 1, 2}

	t.Run("builds the render query", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			require.Equal(t, "go:2,облако:1", q.Get("text"))
			require.Equal(t, "png", q.Get("format"))
			require.Equal(t, "800", q.Get("width"))
			require.Equal(t, "400", q.Get("height"))
			require.Equal(t, "white", q.Get("backgroundColor"))
			w.Write(png)
		}))
		defer srv.Close()

		renderer := NewQuickChartRenderer(srv.URL, time.Second, zerolog.Nop())

		img, err := renderer.Render(ctx, "go:2,облако:1")
		require.NoError(t, err)
		require.Equal(t, png, img)
	})

	t.Run("rejects non-PNG payloads", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not an image</html>"))
		}))
		defer srv.Close()

		renderer := NewQuickChartRenderer(srv.URL, time.Second, zerolog.Nop())

		_, err := renderer.Render(ctx, "word:1")
		require.ErrorIs(t, err, ErrRenderFailed)
	})

	t.Run("rejects empty and error responses", func(t *testing.T) {
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		defer srv.Close()

		renderer := NewQuickChartRenderer(srv.URL, time.Second, zerolog.Nop())

		_, err := renderer.Render(ctx, "word:1")
		require.ErrorIs(t, err, ErrRenderFailed)

		status = http.StatusBadRequest
		_, err = renderer.Render(ctx, "word:1")
		require.ErrorIs(t, err, ErrRenderFailed)
	})
}
