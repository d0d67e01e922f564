package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// GatewayConfig selects and keys the completion providers.
type GatewayConfig struct {
	OpenAIKey        string
	AnthropicKey     string
	OllamaURL        string
	DefaultProvider  string
	DefaultModel     string
	FallbackProvider string
}

type gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	defaultModel     string
	fallbackProvider string
}

// NewGateway builds a gateway from whichever providers have credentials
// configured.
func NewGateway(cfg GatewayConfig) Gateway {
	g := &gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  cfg.DefaultProvider,
		defaultModel:     cfg.DefaultModel,
		fallbackProvider: cfg.FallbackProvider,
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL)
	}

	return g
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

// Complete routes the request to its provider (or the default), falling back
// once to the configured fallback provider on failure. There is no retry
// loop: a failed generation surfaces to the caller, who decides whether to
// re-issue it.
func (g *gateway) Complete(ctx context.Context, req Request) (*Completion, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}
	if req.Model == "" {
		req.Model = g.defaultModel
	}

	resp, err := g.complete(ctx, providerName, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != providerName {
		slog.Warn("primary provider failed, trying fallback",
			"primary", providerName,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		return g.complete(ctx, g.fallbackProvider, req)
	}
	return resp, err
}

func (g *gateway) complete(ctx context.Context, providerName string, req Request) (*Completion, error) {
	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}
	return p.Complete(ctx, req)
}
