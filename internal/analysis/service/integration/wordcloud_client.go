package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

var ErrRenderFailed = errors.New("word cloud rendering failed")

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47}

// WordCloudRenderer turns a "word:count,word:count" spec into a PNG image.
type WordCloudRenderer interface {
	Render(ctx context.Context, spec string) ([]byte, error)
}

// quickChartRenderer delegates to the QuickChart word cloud API.
type quickChartRenderer struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewQuickChartRenderer(baseURL string, timeout time.Duration, logger zerolog.Logger) WordCloudRenderer {
	return &quickChartRenderer{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (r *quickChartRenderer) Render(ctx context.Context, spec string) ([]byte, error) {
	renderURL := fmt.Sprintf(
		"%s?text=%s&format=png&width=800&height=400&backgroundColor=white",
		r.baseURL, url.QueryEscape(spec),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, renderURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrRenderFailed, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrRenderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("%w: returned status %d: %s", ErrRenderFailed, resp.StatusCode, string(body))
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrRenderFailed, err)
	}

	if len(img) == 0 {
		return nil, fmt.Errorf("%w: returned empty image", ErrRenderFailed)
	}

	if len(img) < 8 || !bytes.HasPrefix(img, pngSignature) {
		return nil, fmt.Errorf("%w: response is not a PNG image", ErrRenderFailed)
	}

	r.logger.Debug().Int("png_size", len(img)).Msg("Word cloud rendered")

	return img, nil
}
