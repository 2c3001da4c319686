package perception

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultOpenAIBaseURL is the public chat completions endpoint root.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIMessage represents a chat message.
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIRequest represents the chat completions request body.
// Temperature is always sent; zero is a meaningful setting here.
type OpenAIRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

// OpenAIResponse represents the chat completions response body.
type OpenAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// OpenAIClient implements LLMClient for OpenAI-compatible chat completions.
type OpenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger

	maxRetries int
	backoff    time.Duration
}

// DefaultOpenAIConfig returns the settings used when nothing is configured.
func DefaultOpenAIConfig(apiKey string) ClientConfig {
	return ClientConfig{
		APIKey:      apiKey,
		BaseURL:     DefaultOpenAIBaseURL,
		Model:       DefaultOpenAIModel,
		Timeout:     60 * time.Second,
		MaxTokens:   300,
		Temperature: 0.0,
	}
}

// NewOpenAIClient creates a client with default settings.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(DefaultOpenAIConfig(apiKey), nil)
}

// NewOpenAIClientWithConfig creates a client; empty fields take defaults.
func NewOpenAIClientWithConfig(cfg ClientConfig, logger *zap.Logger) *OpenAIClient {
	def := DefaultOpenAIConfig(cfg.APIKey)
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
		maxRetries:  3,
		backoff:     time.Second,
	}
}

// Complete sends a single user message and returns the trimmed reply.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends an optional system message followed by the user message.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	if c.apiKey == "" {
		return "", ErrNoCredential
	}

	start := time.Now()
	c.logger.Debug("openai request",
		zap.String("model", c.model),
		zap.Int("system_len", len(systemPrompt)),
		zap.Int("user_len", len(userPrompt)))

	var messages []OpenAIMessage
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, OpenAIMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, OpenAIMessage{Role: "user", Content: userPrompt})

	jsonData, err := json.Marshal(OpenAIRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("request cancelled: %w", ctx.Err())
			case <-time.After(c.backoff << uint(i-1)):
			}
		}

		reply, retry, err := c.do(ctx, jsonData)
		if err == nil {
			c.logger.Debug("openai reply",
				zap.Duration("elapsed", time.Since(start)),
				zap.Int("reply_len", len(reply)))
			return reply, nil
		}
		if !retry {
			return "", err
		}
		lastErr = err
		c.logger.Debug("openai attempt failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do performs one HTTP round trip. retry reports whether the failure is
// worth another attempt.
func (c *OpenAIClient) do(ctx context.Context, payload []byte) (reply string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, fmt.Errorf("request failed: %w", err)
		}
		return "", true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, fmt.Errorf("rate limit exceeded (429)")
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", true, fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	case resp.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed OpenAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, ErrEmptyReply
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), false, nil
}

// GetModel returns the current model.
func (c *OpenAIClient) GetModel() string {
	return c.model
}
