package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pressgen/pressgen/observe"
	"github.com/pressgen/pressgen/resilience"
)

// Breaker names per guarded endpoint. Deliberately distinct so streaming
// and non-streaming calls fail independently.
const (
	BreakerChat   = "llm-chat"
	BreakerStream = "llm-chat-stream"
	BreakerEmbed  = "llm-embed"
)

// Config configures the client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.openai.com.
	BaseURL string `yaml:"base_url"`

	// APIKey is sent as a Bearer token.
	APIKey string `yaml:"api_key"`

	// Model is the chat-completion model identifier.
	Model string `yaml:"model"`

	// EmbedModel is the embedding model identifier.
	EmbedModel string `yaml:"embed_model"`

	// MaxAttempts bounds retries per call (including the first attempt).
	// Default: 3
	MaxAttempts int `yaml:"max_attempts"`

	// RetryDelay is the initial backoff delay.
	// Default: 2s
	RetryDelay time.Duration `yaml:"retry_delay"`

	// CallTimeout bounds a single API call.
	// Default: 120s
	CallTimeout time.Duration `yaml:"call_timeout"`

	// BreakerThreshold is the consecutive failures before a breaker opens.
	// Default: 5
	BreakerThreshold int `yaml:"breaker_threshold"`

	// BreakerReset is how long an open breaker waits before probing.
	// Default: 60s
	BreakerReset time.Duration `yaml:"breaker_reset"`

	// RequestsPerSecond throttles outbound calls. 0 disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.EmbedModel == "" {
		c.EmbedModel = "text-embedding-3-small"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 120 * time.Second
	}
	if c.BreakerThreshold <= 0 {
		c.BreakerThreshold = 5
	}
	if c.BreakerReset <= 0 {
		c.BreakerReset = 60 * time.Second
	}
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat-completion request.
type ChatRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completion is a chat-completion result.
type Completion struct {
	Content      string
	Model        string
	PromptTokens int
	OutputTokens int
}

// Client calls the generation API through per-endpoint guards.
type Client struct {
	cfg     Config
	http    *http.Client
	logger  observe.Logger
	metrics observe.Metrics

	chatGuard   *resilience.Guard
	streamGuard *resilience.Guard
	embedGuard  *resilience.Guard
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger.
func WithLogger(l observe.Logger) Option {
	return func(c *Client) { c.logger = l.With("llm") }
}

// WithMetrics attaches call metrics.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client whose breakers live in reg. Guards share
// one rate limiter when RequestsPerSecond is set, since chat, stream,
// and embed calls draw on the same upstream quota.
func NewClient(cfg Config, reg *resilience.Registry, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.applyDefaults()

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{},
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var limiter *resilience.RateLimiter
	if cfg.RequestsPerSecond > 0 {
		limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        cfg.RequestsPerSecond,
			Burst:       1,
			WaitOnLimit: true,
		})
	}

	c.chatGuard = c.newGuard(reg, BreakerChat, limiter)
	c.streamGuard = c.newGuard(reg, BreakerStream, limiter)
	c.embedGuard = c.newGuard(reg, BreakerEmbed, limiter)

	return c, nil
}

func (c *Client) newGuard(reg *resilience.Registry, name string, limiter *resilience.RateLimiter) *resilience.Guard {
	return resilience.NewGuard(reg, name, resilience.GuardConfig{
		Breaker: resilience.CircuitBreakerConfig{
			MaxFailures:  c.cfg.BreakerThreshold,
			ResetTimeout: c.cfg.BreakerReset,
			CallTimeout:  c.cfg.CallTimeout,
			OnStateChange: func(from, to resilience.State) {
				c.logger.Warn(context.Background(), "circuit state changed",
					observe.F("resource", name),
					observe.F("from", from.String()),
					observe.F("to", to.String()),
				)
				c.metrics.RecordCircuitTransition(context.Background(), name, from.String(), to.String())
			},
		},
		Retry: resilience.RetryConfig{
			MaxAttempts:  c.cfg.MaxAttempts,
			InitialDelay: c.cfg.RetryDelay,
			Jitter:       true,
			OnRetry: func(attempt int, err error, delay time.Duration) {
				c.logger.Warn(context.Background(), "retrying call",
					observe.F("resource", name),
					observe.F("attempt", attempt),
					observe.F("delay", delay.String()),
					observe.F("error", err.Error()),
				)
				c.metrics.RecordRetry(context.Background(), name, attempt)
			},
		},
		Limiter: limiter,
	})
}

// chatCompletionRequest is the wire request body.
type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// chatCompletionResponse is the wire response body.
type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete performs a guarded chat-completion call.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	start := time.Now()
	result, err := resilience.GuardDo(ctx, c.chatGuard, func(ctx context.Context) (*Completion, error) {
		return c.complete(ctx, req)
	})
	c.metrics.RecordCall(ctx, BreakerChat, time.Since(start), err)
	return result, err
}

func (c *Client) complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	body := chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var resp chatCompletionResponse
	if err := c.post(ctx, "/v1/chat/completions", body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &Completion{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		PromptTokens: resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func buildMessages(req ChatRequest) []Message {
	msgs := make([]Message, 0, 2)
	if req.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, Message{Role: "user", Content: req.Prompt})
	return msgs
}

// post sends a JSON body and decodes a JSON response. Transport errors
// come back marked Transient; non-2xx statuses go through statusError.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return resilience.Transient(fmt.Errorf("llm: request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A malformed body is not transient; retrying won't fix it.
		return fmt.Errorf("llm: decode response: %w", err)
	}
	return nil
}

// Breakers exposes the chat guard's breaker for health reporting.
func (c *Client) Breakers() []*resilience.CircuitBreaker {
	return []*resilience.CircuitBreaker{
		c.chatGuard.Breaker(),
		c.streamGuard.Breaker(),
		c.embedGuard.Breaker(),
	}
}
