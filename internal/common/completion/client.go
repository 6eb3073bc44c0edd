// Package completion talks to the external text-generation service.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conversation-starters/internal/common/config"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/metrics"

	"google.golang.org/genai"
)

var (
	ErrEmptyCompletion = errors.New("invalid response from completion service")
	ErrTimeout         = errors.New("completion service timeout")
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client is the genai-backed Completer.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// NewClient builds a client for the Gemini API. BaseURL is optional and
// only set when pointing at a proxy or a test server.
func NewClient(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("genai api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		client:  client,
		model:   cfg.Model,
		timeout: config.GetDuration(cfg.Timeout),
		logger:  log,
	}, nil
}

// Complete sends prompt as a single user turn and concatenates the text
// parts of the first candidate.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(callCtx, c.model, genai.Text(prompt), nil)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			metrics.CompletionRequests.WithLabelValues("timeout").Inc()
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		metrics.CompletionRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := candidateText(resp)
	if text == "" {
		metrics.CompletionRequests.WithLabelValues("empty").Inc()
		return "", ErrEmptyCompletion
	}

	metrics.CompletionRequests.WithLabelValues("ok").Inc()
	c.logger.Debug("completion generated", map[string]interface{}{
		"model":       c.model,
		"duration_ms": time.Since(start).Milliseconds(),
		"chars":       len(text),
	})
	return text, nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
