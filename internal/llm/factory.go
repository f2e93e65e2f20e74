package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/model"
)

// NewProvider creates a provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// NewChainFromConfig builds the provider chain from the runtime configuration.
// Without configured providers the chain falls back to ProvidersFromEnv.
// Providers that cannot be constructed (missing key or model) are skipped with
// a warning; an empty chain is an error.
func NewChainFromConfig(cfg model.Config, logger zerolog.Logger) (*Chain, error) {
	configured := cfg.LLM.Providers
	if len(configured) == 0 {
		configured = ProvidersFromEnv()
	}

	var providers []Provider
	for _, pc := range configured {
		p, err := NewProvider(ConfigFromModel(pc, cfg))
		if err != nil {
			logger.Warn().Err(err).Str("provider", pc.Name).Msg("skipping inference provider")
			continue
		}
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: configure llm.providers or set OPENAI_API_KEY / ANTHROPIC_API_KEY", ErrNoProviders)
	}
	return NewChain(logger, providers...), nil
}

// ProvidersFromEnv derives a provider list from the conventional environment
// variables, in the order OpenAI, Anthropic, Ollama
func ProvidersFromEnv() []model.ProviderConfig {
	var out []model.ProviderConfig
	if os.Getenv("OPENAI_API_KEY") != "" {
		out = append(out, model.ProviderConfig{Name: "openai", Model: os.Getenv("OPENAI_MODEL")})
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		out = append(out, model.ProviderConfig{Name: "anthropic", Model: os.Getenv("ANTHROPIC_MODEL")})
	}
	if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
		out = append(out, model.ProviderConfig{Name: "ollama", BaseURL: base, Model: os.Getenv("OLLAMA_MODEL")})
	}
	return out
}

// ConfigFromModel converts one configured provider to llm.Config. Missing API
// keys are read from the provider's conventional environment variable.
func ConfigFromModel(pc model.ProviderConfig, cfg model.Config) Config {
	apiKey := pc.APIKey
	if apiKey == "" {
		apiKey = LoadAPIKeyFromEnv(pc.Name)
	}

	return Config{
		Provider:    pc.Name,
		Model:       pc.Model,
		APIKey:      apiKey,
		BaseURL:     pc.BaseURL,
		Timeout:     cfg.LLM.Timeout,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		HTTPProxy:   cfg.HTTP.HTTPProxy,
		HTTPSProxy:  cfg.HTTP.HTTPSProxy,
		NoProxy:     cfg.HTTP.NoProxy,
	}
}

// LoadAPIKeyFromEnv reads the API key for a provider from the environment
func LoadAPIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
