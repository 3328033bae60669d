package generation

import (
	"context"
	"fmt"

	"personify/internal/config"
)

// NewClient builds a generation client from configuration. The provider
// selects the backend; the concurrency cap is applied uniformly on top so
// callers never see an unlimited client.
func NewClient(ctx context.Context, cfg config.GenerationConfig) (Client, error) {
	gcfg := GeminiConfig{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		Model:           cfg.Model,
		Timeout:         cfg.TimeoutDuration(),
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	var (
		client Client
		err    error
	)
	switch cfg.Provider {
	case "", "gemini":
		client, err = NewGeminiClient(gcfg)
	case "genai":
		client, err = NewGenAIClient(ctx, gcfg)
	default:
		return nil, fmt.Errorf("unknown generation provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return Limited(client, cfg.MaxConcurrent), nil
}
