package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type AnalysisClient interface {
	// TriggerAnalysis asks the analysis service to analyze the work.
	// Used by the fire-and-forget dispatcher, never by request handlers.
	TriggerAnalysis(ctx context.Context, workID string) error

	// ListReports returns the downstream status and body for relaying.
	ListReports(ctx context.Context, workID string) (int, []byte, error)
}

type analysisClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewAnalysisClient(baseURL string, timeout time.Duration, logger zerolog.Logger) AnalysisClient {
	return &analysisClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *analysisClient) TriggerAnalysis(ctx context.Context, workID string) error {
	url := fmt.Sprintf("%s/reports/analyze/%s", c.baseURL, workID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach analysis service: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("analysis service returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *analysisClient) ListReports(ctx context.Context, workID string) (int, []byte, error) {
	url := fmt.Sprintf("%s/reports/%s", c.baseURL, workID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("Analysis service unreachable")
		return 0, nil, fmt.Errorf("failed to reach analysis service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read analysis response: %w", err)
	}

	return resp.StatusCode, body, nil
}
