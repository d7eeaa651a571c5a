package advice

import (
	"context"
	"fmt"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider routes advice generation through OpenRouter's
// OpenAI-compatible gateway. Model IDs are vendor-prefixed
// ("google/gemini-2.0-flash-exp") and pass through without aliasing.
type OpenRouterProvider struct {
	inner *OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return &OpenRouterProvider{
		inner: newOpenAIBackend(cfg.APIKey, baseURL, cfg.Model),
	}, nil
}

func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return p.inner.Generate(ctx, req)
}

func (p *OpenRouterProvider) ModelID() string {
	return p.inner.ModelID()
}
