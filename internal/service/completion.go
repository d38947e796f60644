package service

import (
	"context"
	"fmt"
	"log"

	"github.com/pageza/nutriplan/backend/config"
)

// CompletionProvider is an external text-completion capability: given a
// prompt it returns the completion text or fails
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewCompletionProvider builds the provider selected by LLM_PROVIDER, or the
// one whose API key is present. It returns nil when none is configured, in
// which case plans always come from the fallback templates.
func NewCompletionProvider(ctx context.Context, cfg *config.Config) (CompletionProvider, error) {
	provider := cfg.LLMProvider
	if provider == "" {
		switch {
		case cfg.GeminiAPIKey != "":
			provider = "gemini"
		case cfg.OpenAIAPIKey != "":
			provider = "openai"
		default:
			provider = "none"
		}
	}

	switch provider {
	case "gemini":
		p, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case "none":
		log.Printf("No completion provider configured, diet plans will use fallback templates")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown completion provider: %s", provider)
	}
}
