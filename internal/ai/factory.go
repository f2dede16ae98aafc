package ai

import (
	"fmt"

	"github.com/Pradipwasre/xumo-support-ai/internal/ai/anthropic"
	"github.com/Pradipwasre/xumo-support-ai/internal/ai/ollama"
	"github.com/Pradipwasre/xumo-support-ai/internal/ai/openai"
	"github.com/Pradipwasre/xumo-support-ai/internal/config"
	"github.com/Pradipwasre/xumo-support-ai/pkg/models"
)

// NewProvider constructs the reply provider selected by config. Called once
// at server startup. "none" returns a nil provider: the pipeline then runs
// with deterministic fallbacks only.
func NewProvider(cfg config.AIConfig) (models.ReplyProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, openai, anthropic, none", cfg.Provider)
	}
}
