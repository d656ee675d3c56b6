package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reconhq/recon-core/internal/config"
)

// Client completes a rewrite request against a text-generation provider.
// The style prompt rides as the system/developer message; the task payload
// as the user message. Implementations are constructed once at startup and
// injected into the content generator.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrDisabled is returned by New when no provider is configured.
var ErrDisabled = errors.New("rewrite provider is disabled")

// New builds a rewrite client from the AI provider configuration.
func New(cfg config.AIProvider) (Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("rewrite provider api key is empty")
	}

	switch normalizeProviderType(cfg.Type) {
	case "", "openai", "openai-compatible", "openaicompatible":
		return newOpenAIClient(cfg), nil
	case "anthropic":
		return newAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown rewrite provider type %q", cfg.Type)
	}
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}
