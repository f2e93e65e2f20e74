package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/evidentia/internal/model"
)

type stubProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (s *stubProvider) Name() string                     { return s.name }
func (s *stubProvider) IsAvailable(context.Context) bool { return s.err == nil }

func (s *stubProvider) Infer(_ context.Context, _ Request) (*Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Text: s.reply, Provider: s.name}, nil
}

func TestChainFallsBack(t *testing.T) {
	down := &stubProvider{name: "down", err: fmt.Errorf("%w: 503", ErrProviderUnavailable)}
	up := &stubProvider{name: "up", reply: "{}"}

	chain := NewChain(zerolog.Nop(), down, up)
	resp, err := chain.Infer(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "up", resp.Provider)
	assert.Equal(t, 1, down.calls)

	// Failure is per call, the first provider is tried again
	_, err = chain.Infer(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, down.calls)
	assert.Equal(t, "chain(down,up)", chain.Name())
	assert.True(t, chain.IsAvailable(context.Background()))
}

func TestChainAllFail(t *testing.T) {
	a := &stubProvider{name: "a", err: fmt.Errorf("%w: timeout", ErrProviderUnavailable)}
	b := &stubProvider{name: "b", err: errors.New("boom")}

	_, err := NewChain(zerolog.Nop(), a, b).Infer(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNoProviders)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "b: boom")

	_, err = NewChain(zerolog.Nop()).Infer(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestChainStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &stubProvider{name: "a", err: context.Canceled}
	b := &stubProvider{name: "b", reply: "{}"}

	_, err := NewChain(zerolog.Nop(), a, b).Infer(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, b.calls)
}

func TestProvidersFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("ANTHROPIC_MODEL", "")
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434")
	t.Setenv("OLLAMA_MODEL", "llama3")

	got := ProvidersFromEnv()
	require.Len(t, got, 2)
	assert.Equal(t, "anthropic", got[0].Name)
	assert.Equal(t, "ollama", got[1].Name)
	assert.Equal(t, "llama3", got[1].Model)
}

func TestNewChainFromConfig_NoProviders(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OLLAMA_BASE_URL", "")

	_, err := NewChainFromConfig(model.DefaultConfig(), zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoProviders)
}
