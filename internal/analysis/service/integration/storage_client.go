package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

var ErrWorkNotFound = errors.New("work not found in storage service")

// StorageClient fetches submission bytes from the storage service.
type StorageClient interface {
	GetFileContent(ctx context.Context, workID string) ([]byte, error)
}

type storageClient struct {
	baseURL    string
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

func NewStorageClient(baseURL string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) StorageClient {
	return &storageClient{
		baseURL:    baseURL,
		retryCount: retryCount,
		retryDelay: retryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *storageClient) GetFileContent(ctx context.Context, workID string) ([]byte, error) {
	url := fmt.Sprintf("%s/files/%s", c.baseURL, workID)

	var lastErr error

	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn().Int("attempt", i).Str("work_id", workID).Msg("Retrying file content fetch")
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("failed to get file content: %w", ctx.Err())
			case <-time.After(c.retryDelay * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to get file content: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			content, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("failed to read response body: %w", err)
				continue
			}

			c.logger.Debug().
				Str("work_id", workID).
				Int("content_size", len(content)).
				Msg("Got file content")

			return content, nil
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", ErrWorkNotFound, workID)
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("storage service returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil, fmt.Errorf("failed to get file content after %d attempts: %w", c.retryCount+1, lastErr)
}
