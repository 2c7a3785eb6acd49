// Package openrouter calls the chat completion API that produces listing
// analyses. OpenRouter speaks the OpenAI wire protocol, so the client is
// built on the same SDK as the embedding transport.
package openrouter

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/domain"
	"github.com/kailas-cloud/listwise/internal/metrics"
)

// Client requests chat completions from an OpenAI-compatible endpoint.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// New creates a completion client. The HTTP client timeout bounds the whole
// request; there is no per-attempt retry.
func New(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Complete sends the prompt as a single user message and returns the raw
// completion text. Exactly one attempt is made: a failed call surfaces as a
// *domain.CompletionError, never as a retry.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", c.parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", domain.NewCompletionTransportError("empty completion response")
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// parseAPIError maps SDK errors onto *domain.CompletionError, preserving the
// provider status code and body for the client-facing message.
func (c *Client) parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		c.logger.Warn("Completion request error",
			zap.Int("status", reqErr.HTTPStatusCode),
			zap.Error(err))
		return domain.NewCompletionHTTPError(reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		c.logger.Warn("Completion API error",
			zap.Int("status", apiErr.HTTPStatusCode),
			zap.Error(err))
		return domain.NewCompletionHTTPError(apiErr.HTTPStatusCode, apiErr.Message)
	}

	c.logger.Warn("Completion transport error", zap.Error(err))
	return domain.NewCompletionTransportError(err.Error())
}
