// Package completion talks to an OpenAI-compatible chat completion endpoint.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.mistral.ai/v1"
	DefaultModel       = "mistral-large-latest"
	DefaultAPIKeyEnv   = "MISTRAL_API_KEY"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1500
	DefaultTimeout     = 30 * time.Second
)

// Message is one entry of the request message list.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config configures the completion client.
// APIKey wins over APIKeyEnv when both are set.
type Config struct {
	BaseURL     string
	APIKey      string
	APIKeyEnv   string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client issues one synchronous request per call. It never retries.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	client      *http.Client
	logger      *zap.Logger
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a client, reading the API key from the environment
// when cfg.APIKey is empty.
func NewClient(cfg Config) (*Client, error) {
	key := cfg.APIKey
	if key == "" {
		if cfg.APIKeyEnv == "" {
			cfg.APIKeyEnv = DefaultAPIKeyEnv
		}
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	t := cfg.Timeout
	if t == 0 {
		t = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      key,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     t,
		client:      hc,
		logger:      logger,
	}, nil
}

// Model returns the model identifier sent with each request.
func (c *Client) Model() string { return c.model }

// Chat sends messages and returns the content of the first choice.
// Every failure is an *Error.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", &Error{Kind: KindUnexpected, Err: fmt.Errorf("encode request: %w", err)}
	}
	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", &Error{Kind: KindUnexpected, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	c.logger.Debug("completion request",
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
		zap.Int("bytes", len(data)))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.fail(transportError(err), start)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(transportError(err), start)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.fail(&Error{
			Kind:    KindService,
			Status:  resp.StatusCode,
			Excerpt: Excerpt(string(payload), MaxExcerpt),
		}, start)
	}

	var out chatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", c.fail(&Error{
			Kind:    KindService,
			Status:  resp.StatusCode,
			Excerpt: Excerpt(string(payload), MaxExcerpt),
			Err:     fmt.Errorf("decode response: %w", err),
		}, start)
	}
	if len(out.Choices) == 0 {
		return "", c.fail(&Error{
			Kind:   KindService,
			Status: resp.StatusCode,
			Err:    errors.New("no choices returned"),
		}, start)
	}

	content := out.Choices[0].Message.Content
	c.logger.Debug("completion response",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(content)))
	return content, nil
}

func (c *Client) fail(e *Error, start time.Time) *Error {
	c.logger.Warn("completion failed",
		zap.Stringer("kind", e.Kind),
		zap.Int("status", e.Status),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(e))
	return e
}
