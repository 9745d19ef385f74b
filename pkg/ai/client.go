package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const serviceProvider = "ai-service"

// ServiceClient calls the internal ai-service chat endpoint.
type ServiceClient struct {
	BaseURL  string
	HTTP     *http.Client
	Language string
	// Attempts is the number of tries for transport failures; 0 means 3.
	Attempts int
	// Backoff is the first retry delay, doubled per attempt; 0 means 1s.
	Backoff time.Duration
}

func NewServiceClient(baseURL, language string) *ServiceClient {
	if baseURL == "" {
		baseURL = "http://ai-service:8000"
	}
	return &ServiceClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 60 * time.Second}, Language: language}
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *ServiceClient) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := c.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		slog.Warn("ai-service request failed", "path", path, "attempt", i+1, "error", err)
		// exponential backoff before retrying
		if i < attempts-1 {
			select {
			case <-time.After(backoff << i):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// GenerateStructured sends the prompt to /v1/chat and returns the JSON object
// found in the chat output.
func (c *ServiceClient) GenerateStructured(ctx context.Context, prompt PromptID, input any) (json.RawMessage, error) {
	system, user, err := buildPrompt(prompt, input, c.Language)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(map[string]interface{}{
		"agent": "auto",
		"input": system + "\n\nContext:\n" + user,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("ai-service request", "prompt", prompt, "bytes", len(b))

	resp, err := c.doPostWithRetry(ctx, "/v1/chat", b)
	if err != nil {
		return nil, &UpstreamError{Provider: serviceProvider, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Provider: serviceProvider, Err: err}
	}
	slog.Debug("ai-service response", "prompt", prompt, "status", resp.StatusCode, "bytes", len(respBytes))

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: serviceProvider, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", bytes.TrimSpace(respBytes))}
	}

	var chatResp struct {
		Agent  string `json:"agent"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return nil, &UpstreamError{Provider: serviceProvider, StatusCode: resp.StatusCode, Err: err}
	}
	if chatResp.Output == "" {
		return nil, ErrEmptyResponse
	}
	return extractObject(chatResp.Output)
}
