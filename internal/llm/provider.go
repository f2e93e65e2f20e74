// Package llm talks to the inference providers that produce the
// understanding, fact extraction and verdict judgments.
package llm

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrProviderUnavailable marks transport, quota and authentication failures.
	// The chain moves on to the next provider.
	ErrProviderUnavailable = errors.New("inference provider unavailable")

	// ErrSchemaMismatch marks a reply that does not decode into the requested shape
	ErrSchemaMismatch = errors.New("inference reply does not match schema")

	// ErrNoProviders is returned when no provider is configured or all failed
	ErrNoProviders = errors.New("no inference provider available")
)

// Provider defines the interface for inference providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Infer sends one prompt and returns the raw reply text
	Infer(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request is one inference call
type Request struct {
	// System sets the role and the output rules
	System string

	// Prompt is the task with its inputs
	Prompt string

	// Schema describes the JSON object the reply must be. When set, providers
	// that support it are put in JSON mode.
	Schema string

	// MaxTokens limits the response length (0 uses the provider default)
	MaxTokens int
}

// Response is the raw reply of one inference call
type Response struct {
	// Text is the reply as returned by the provider
	Text string

	// Model is the model that generated the response
	Model string

	// Provider is the name of the provider that answered
	Provider string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout per inference call
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling; judgments want it low
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:     60 * time.Second,
		MaxTokens:   4000,
		Temperature: 0.1,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = def.MaxTokens
	}
	return c
}

// systemPrompt appends the schema instruction to the system prompt
func systemPrompt(req Request) string {
	if req.Schema == "" {
		return req.System
	}
	return req.System + "\n\nReply with a single JSON object and nothing else. It must match this shape:\n" + req.Schema
}

func maxTokens(req Request, cfg Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return cfg.MaxTokens
}
