package model

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// RetryConfig controls how many times and how far apart Complete retries a
// failed chat completion request. A turn's model call sits on sentinel's
// single-threaded dispatch loop, so a provider that gives up on the first
// transient network error stalls the whole turn; retrying a bounded number
// of times with exponential backoff is cheaper than failing the turn.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig matches the timeout model.timeout defaults to in
// internal/config: a few quick retries, never waiting longer than the
// request itself would have taken to time out.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     4 * time.Second,
		Multiplier:     2,
	}
}

// OpenAIProvider implements Provider using the official OpenAI Go SDK. It
// supports any OpenAI-compatible endpoint via WithBaseURL, which is how a
// sentinel operator points the agent loop at a local model server instead
// of the hosted API.
type OpenAIProvider struct {
	client openai.Client
	model  string
	retry  RetryConfig
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*openaiConfig)

type openaiConfig struct {
	model   string
	apiKey  string
	baseURL string
	timeout time.Duration
	retry   RetryConfig
}

// WithModel sets the model name (default: "gpt-4o").
func WithModel(model string) OpenAIOption {
	return func(c *openaiConfig) { c.model = model }
}

// WithAPIKey sets the API key. If empty, the SDK falls back to OPENAI_API_KEY.
func WithAPIKey(key string) OpenAIOption {
	return func(c *openaiConfig) { c.apiKey = key }
}

// WithBaseURL sets a custom base URL, enabling Ollama, vLLM, Azure, or other
// OpenAI-compatible endpoints.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openaiConfig) { c.baseURL = url }
}

// WithTimeout sets the per-request timeout for API calls (default: 2 minutes).
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *openaiConfig) { c.timeout = d }
}

// WithMaxRetries overrides DefaultRetryConfig's retry count, surfacing
// internal/config's model.max_retries policy field through to the provider.
// A value of 0 disables retrying entirely.
func WithMaxRetries(n int) OpenAIOption {
	return func(c *openaiConfig) { c.retry.MaxRetries = n }
}

// NewOpenAIProvider creates an OpenAIProvider with the given options.
func NewOpenAIProvider(opts ...OpenAIOption) *OpenAIProvider {
	cfg := openaiConfig{model: "gpt-4o", retry: DefaultRetryConfig()}
	for _, o := range opts {
		o(&cfg)
	}

	var clientOpts []option.RequestOption
	if cfg.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.apiKey))
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(cfg.timeout))
	}

	return &OpenAIProvider{
		client: openai.NewClient(clientOpts...),
		model:  cfg.model,
		retry:  cfg.retry,
	}
}

// Complete sends a chat completion request to the OpenAI API and returns the
// response content with token usage metadata, retrying transport-level
// failures (but never a malformed-response error) up to p.retry.MaxRetries
// times with exponential backoff.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: toOpenAIMessages(messages),
	}

	backoff := p.retry.InitialBackoff
	var lastErr error
	for attempt := 0; attempt <= p.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * p.retry.Multiplier)
			if backoff > p.retry.MaxBackoff {
				backoff = p.retry.MaxBackoff
			}
		}

		completion, err := p.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = fmt.Errorf("openai chat completion: %w", err)
			continue
		}
		if len(completion.Choices) == 0 {
			// A malformed response is not a transient fault retrying would fix.
			return nil, fmt.Errorf("openai returned no choices")
		}

		return &Response{
			Content:          completion.Choices[0].Message.Content,
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
		}, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", p.retry.MaxRetries+1, lastErr)
}

// toOpenAIMessages converts internal Message values to the SDK union type.
func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(m.Content)
		case RoleUser:
			out[i] = openai.UserMessage(m.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(m.Content)
		default:
			out[i] = openai.UserMessage(m.Content)
		}
	}
	return out
}
