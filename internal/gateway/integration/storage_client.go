package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// UploadResult carries the storage service's response verbatim so the
// gateway can relay it to the client unchanged.
type UploadResult struct {
	Status int
	Body   []byte
}

type StorageClient interface {
	// Upload streams the client's multipart body to the storage service
	// and returns whatever status and body it answered with. An error
	// means the service could not be reached at all.
	Upload(ctx context.Context, contentType string, body io.Reader) (*UploadResult, error)
}

type storageClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewStorageClient(baseURL string, timeout time.Duration, logger zerolog.Logger) StorageClient {
	return &storageClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *storageClient) Upload(ctx context.Context, contentType string, body io.Reader) (*UploadResult, error) {
	url := fmt.Sprintf("%s/files", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("Storage service unreachable")
		return nil, fmt.Errorf("failed to reach storage service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage response: %w", err)
	}

	return &UploadResult{
		Status: resp.StatusCode,
		Body:   respBody,
	}, nil
}

// ExtractWorkID pulls the "id" field out of a successful upload response.
func ExtractWorkID(body []byte) (string, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	id, ok := payload["id"].(string)
	if !ok || id == "" {
		return "", errors.New("upload response has no id")
	}

	return id, nil
}
