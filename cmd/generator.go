package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"snsbuilder/internal/config"
	"snsbuilder/internal/strategy"
)

// newAdapter wires the configured provider behind the strategy adapter.
// A missing key only warns: requests fail with an authentication error later.
func newAdapter(ctx context.Context, cfg config.Config, log *slog.Logger) (*strategy.Adapter, error) {
	var generator strategy.Generator

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			log.WarnContext(ctx, "OPENAI_API_KEY is missing so every request will fail",
				"envVar", "OPENAI_API_KEY")
		}

		generator = strategy.NewOpenAIGenerator(strategy.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})

	default:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			log.WarnContext(ctx, "GEMINI_API_KEY is missing so every request will fail",
				"envVar", "GEMINI_API_KEY")
		}

		gemini, err := strategy.NewGeminiGenerator(ctx, strategy.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini generator: %w", err)
		}
		generator = gemini
	}

	log.InfoContext(ctx, "Strategy generator is initialized",
		"provider", cfg.Provider)

	return strategy.NewAdapter(generator, log), nil
}
