package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUnauthorized is returned when the service explicitly denies the request
	ErrUnauthorized = errors.New("answer service denied the request")
	// ErrMalformed is returned when the response body cannot be used
	ErrMalformed = errors.New("malformed answer response")
)

// StatusError reports a non-success HTTP status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("answer service returned status %d: %s", e.Code, e.Body)
}

// maxErrorBody bounds how much of a failed response is kept for logging
const maxErrorBody = 512

// Client handles communication with the answer service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new answer service client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Ask sends one question with its history window and returns the answer text
func (c *Client) Ask(ctx context.Context, req Request) (string, error) {
	if req.History == nil {
		req.History = [][2]string{}
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("answer service responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("history_pairs", len(req.History)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var answerResp Response
	if err := json.NewDecoder(resp.Body).Decode(&answerResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case answerResp.Result.Error == unauthorizedMarker:
		return "", ErrUnauthorized
	case answerResp.Result.Error != "":
		return "", fmt.Errorf("answer service error: %s", answerResp.Result.Error)
	case answerResp.Result.Success == "":
		return "", fmt.Errorf("%w: missing answer text", ErrMalformed)
	}

	return answerResp.Result.Success, nil
}
