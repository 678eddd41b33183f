package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// PipelineClient calls the post-ingestion service that owns comment fetching and analysis.
type PipelineClient interface {
	// FetchComments pulls new comments for the post and returns the updated comment count.
	FetchComments(ctx context.Context, postID string) (int, error)
	AnalyzeComments(ctx context.Context, postID string) error
}

type pipelineClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

func NewPipelineClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) PipelineClient {
	return &pipelineClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("service", "PipelineClient").Logger(),
	}
}

type fetchCommentsResponse struct {
	CommentCount int `json:"commentCount"`
}

func (c *pipelineClient) FetchComments(ctx context.Context, postID string) (int, error) {
	body, err := c.post(ctx, "/posts/"+url.PathEscape(postID)+"/fetch-comments")
	if err != nil {
		return 0, fmt.Errorf("fetch comments: %w", err)
	}
	var resp fetchCommentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("fetch comments: decoding response: %w", err)
	}
	return resp.CommentCount, nil
}

func (c *pipelineClient) AnalyzeComments(ctx context.Context, postID string) error {
	if _, err := c.post(ctx, "/posts/"+url.PathEscape(postID)+"/analyze"); err != nil {
		return fmt.Errorf("analyze comments: %w", err)
	}
	return nil
}

func (c *pipelineClient) post(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request to pipeline service: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading pipeline response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorMsg := strings.TrimSpace(string(bodyBytes))
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("path", path).
			Str("error_body", errorMsg).
			Msg("Pipeline service returned error")
		return nil, fmt.Errorf("pipeline service returned status %d: %s", resp.StatusCode, errorMsg)
	}
	return bodyBytes, nil
}
